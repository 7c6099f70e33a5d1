package config

// Presets are named starting points per plant; the CLI layers flags on
// top of them.
var presets = map[string]map[string]*Config{
	"thermal": {
		"oven": {
			Plant:      "thermal",
			Integrator: "rk4",
			Controller: "pid",
			Dt:         0.1,
			Duration:   120.0,
			InitState:  InitStateConfig{Temp: 20.0},
			PID: PIDConfig{
				Kp:      8.0,
				Ki:      0.4,
				Kd:      2.0,
				ClampLo: 0.0,
				ClampHi: 100.0,
				Smooth:  0.7,
			},
			Setpoint: SetpointConfig{Profile: "step", Level: 180.0},
		},
		"gentle": {
			Plant:      "thermal",
			Integrator: "rk4",
			Controller: "pid",
			Dt:         0.1,
			Duration:   240.0,
			InitState:  InitStateConfig{Temp: 20.0},
			PID: PIDConfig{
				Kp:      2.0,
				Ki:      0.1,
				Kd:      0.0,
				ClampLo: 0.0,
				ClampHi: 40.0,
				Smooth:  1.0,
			},
			Setpoint: SetpointConfig{Profile: "step", Level: 60.0},
		},
	},
	"motor": {
		"servo": {
			Plant:      "motor",
			Integrator: "rk4",
			Controller: "pid",
			Dt:         0.001,
			Duration:   2.0,
			PID: PIDConfig{
				Kp:      12.0,
				Ki:      30.0,
				Kd:      0.05,
				ClampLo: -24.0,
				ClampHi: 24.0,
				Smooth:  0.5,
			},
			Setpoint: SetpointConfig{Profile: "step", Level: 10.0},
		},
	},
	"pendulum": {
		"hold": {
			Plant:      "pendulum",
			Integrator: "rk4",
			Controller: "pid",
			Dt:         0.005,
			Duration:   10.0,
			InitState:  InitStateConfig{Theta: 0.5},
			PID: PIDConfig{
				Kp:      25.0,
				Ki:      5.0,
				Kd:      4.0,
				ClampLo: -15.0,
				ClampHi: 15.0,
				Smooth:  0.8,
			},
			Setpoint: SetpointConfig{Profile: "step", Level: 0.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not
// exist.
func GetPreset(plant, name string) *Config {
	group, ok := presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names for a plant, or nil for an
// unknown plant.
func ListPresets(plant string) []string {
	group, ok := presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
