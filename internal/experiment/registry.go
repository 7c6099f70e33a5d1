package experiment

import (
	"fmt"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/integrators"
	"github.com/san-kum/pidlab/internal/loop"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/setpoint"
)

type Registry struct {
	plants   map[string]func() loop.Plant
	steppers map[string]func() loop.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		plants:   make(map[string]func() loop.Plant),
		steppers: make(map[string]func() loop.Stepper),
	}

	r.plants["thermal"] = func() loop.Plant { return plant.NewThermal() }
	r.plants["motor"] = func() loop.Plant { return plant.NewMotor() }
	r.plants["pendulum"] = func() loop.Plant { return plant.NewPendulum() }

	r.steppers["euler"] = func() loop.Stepper { return integrators.NewEuler() }
	r.steppers["rk4"] = func() loop.Stepper { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetPlant(name string) (loop.Plant, error) {
	fn, ok := r.plants[name]
	if !ok {
		return nil, fmt.Errorf("unknown plant: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetStepper(name string) (loop.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListPlants() []string {
	names := make([]string, 0, len(r.plants))
	for name := range r.plants {
		names = append(names, name)
	}
	return names
}

// GetController builds the named controller. For "pid" the gains and
// smoothing go through the setters, so out-of-domain config values are
// silently dropped and the controller keeps its defaults.
func (r *Registry) GetController(name string, dt float64, pc config.PIDConfig) (loop.Controller, error) {
	switch name {
	case "none":
		return loop.NewNone(), nil
	case "pid":
		c, err := pid.New(dt, pc.ClampLo, pc.ClampHi)
		if err != nil {
			return nil, err
		}
		c.SetKp(pc.Kp)
		c.SetKi(pc.Ki)
		c.SetKd(pc.Kd)
		c.SetSmooth(pc.Smooth)
		return c, nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
}

func (r *Registry) GetReference(sc config.SetpointConfig) (loop.Reference, error) {
	switch sc.Profile {
	case "step", "":
		s := setpoint.NewStep(sc.Level)
		s.Start = sc.Start
		return s, nil
	case "ramp":
		ramp := setpoint.NewRamp(sc.Slope)
		ramp.Limit = sc.Level
		return ramp, nil
	case "sine":
		s := setpoint.NewSine(sc.Amplitude, sc.Period)
		s.Offset = sc.Level
		return s, nil
	case "square":
		return setpoint.NewSquare(sc.Amplitude, sc.Period), nil
	case "constant":
		return setpoint.NewConstant(sc.Level), nil
	default:
		return nil, fmt.Errorf("unknown setpoint profile: %s", sc.Profile)
	}
}

func (r *Registry) DefaultMetrics() []loop.Metric {
	return []loop.Metric{
		metrics.NewIAE(),
		metrics.NewISE(),
		metrics.NewOvershoot(),
		metrics.NewSettlingTime(0.02),
		metrics.NewControlEffort(),
	}
}
