package plant

import "github.com/san-kum/pidlab/internal/loop"

// Motor is a DC motor driven by armature voltage. State is
// {current, omega}; the measured output is angular velocity.
type Motor struct {
	Resistance float64 // armature resistance
	Inductance float64 // armature inductance
	Kt         float64 // torque constant
	Ke         float64 // back-EMF constant
	Inertia    float64
	Friction   float64
}

func NewMotor() *Motor {
	return &Motor{
		Resistance: 1.0,
		Inductance: 0.5,
		Kt:         0.05,
		Ke:         0.05,
		Inertia:    0.02,
		Friction:   0.02,
	}
}

func (p *Motor) StateDim() int {
	return 2
}

func (p *Motor) Output(x loop.State) float64 {
	return x[1]
}

func (p *Motor) Derive(x loop.State, u, t float64) loop.State {
	current := x[0]
	omega := x[1]

	di := (u - p.Resistance*current - p.Ke*omega) / p.Inductance
	domega := (p.Kt*current - p.Friction*omega) / p.Inertia

	return loop.State{di, domega}
}
