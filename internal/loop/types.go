package loop

import "math"

// State is the plant state vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Plant is a single-input single-output dynamical system
// dX/dt = f(X, u, t) with a scalar measured output.
type Plant interface {
	Derive(x State, u, t float64) State
	StateDim() int
	Output(x State) float64
}

// Controller maps one error sample to one control signal.
type Controller interface {
	Step(e float64) float64
}

// Reference produces the setpoint the loop tracks.
type Reference interface {
	At(t float64) float64
}

// Stepper advances the plant state by one timestep.
type Stepper interface {
	Step(p Plant, x State, u, t, dt float64) State
}

// Sample is one closed-loop step as seen by metrics and observers.
type Sample struct {
	T        float64
	Setpoint float64
	Output   float64
	Err      float64
	Control  float64
	State    State
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result collects the trajectory of one closed-loop run. The slices
// are parallel, one entry per executed step.
type Result struct {
	Times      []float64
	Setpoints  []float64
	Outputs    []float64
	Controls   []float64
	States     []State
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// TrackingError returns the setpoint-minus-output signal.
func (r *Result) TrackingError() []float64 {
	e := make([]float64, len(r.Times))
	for i := range r.Times {
		e[i] = r.Setpoints[i] - r.Outputs[i]
	}
	return e
}
