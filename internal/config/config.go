package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultClampLo  = -100.0
	DefaultClampHi  = 100.0
	DefaultSmooth   = 1.0
	DefaultKp       = 5.0
	DefaultKi       = 1.0
	DefaultKd       = 0.0
)

type Config struct {
	Plant      string          `yaml:"plant"`
	Integrator string          `yaml:"integrator"`
	Controller string          `yaml:"controller"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	InitState  InitStateConfig `yaml:"init_state"`
	PID        PIDConfig       `yaml:"pid"`
	Setpoint   SetpointConfig  `yaml:"setpoint"`
}

type InitStateConfig struct {
	Temp    float64 `yaml:"temp"`
	Current float64 `yaml:"current"`
	Omega   float64 `yaml:"omega"`
	Theta   float64 `yaml:"theta"`
}

type PIDConfig struct {
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
	ClampLo float64 `yaml:"clamp_lo"`
	ClampHi float64 `yaml:"clamp_hi"`
	Smooth  float64 `yaml:"smooth"`
}

type SetpointConfig struct {
	Profile   string  `yaml:"profile"`
	Level     float64 `yaml:"level"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Slope     float64 `yaml:"slope"`
	Start     float64 `yaml:"start"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:      "thermal",
		Integrator: "rk4",
		Controller: "pid",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		InitState: InitStateConfig{
			Temp: 20.0,
		},
		PID: PIDConfig{
			Kp:      DefaultKp,
			Ki:      DefaultKi,
			Kd:      DefaultKd,
			ClampLo: DefaultClampLo,
			ClampHi: DefaultClampHi,
			Smooth:  DefaultSmooth,
		},
		Setpoint: SetpointConfig{
			Profile: "step",
			Level:   50.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState maps the named initial conditions onto the state vector
// layout of the configured plant.
func (c *Config) GetInitState() []float64 {
	switch c.Plant {
	case "motor":
		return []float64{c.InitState.Current, c.InitState.Omega}
	case "pendulum":
		return []float64{c.InitState.Theta, c.InitState.Omega}
	default:
		return []float64{c.InitState.Temp}
	}
}
