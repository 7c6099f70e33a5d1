package plant

import (
	"math"
	"testing"

	"github.com/san-kum/pidlab/internal/loop"
)

func TestThermalEquilibrium(t *testing.T) {
	p := NewThermal()

	// At ambient with no heater power nothing moves.
	dx := p.Derive(loop.State{p.Ambient}, 0, 0)
	if math.Abs(dx[0]) > 1e-12 {
		t.Errorf("expected zero derivative at ambient, got %f", dx[0])
	}

	// Above ambient the chamber cools.
	dx = p.Derive(loop.State{p.Ambient + 10}, 0, 0)
	if dx[0] >= 0 {
		t.Errorf("expected cooling above ambient, got %f", dx[0])
	}

	// Heater power warms it up.
	dx = p.Derive(loop.State{p.Ambient}, 5.0, 0)
	if dx[0] <= 0 {
		t.Errorf("expected heating with power applied, got %f", dx[0])
	}
}

func TestThermalSteadyState(t *testing.T) {
	p := NewThermal()

	// Steady state for constant u is Ambient + Gain*u.
	u := 5.0
	steady := p.Ambient + p.Gain*u
	dx := p.Derive(loop.State{steady}, u, 0)
	if math.Abs(dx[0]) > 1e-12 {
		t.Errorf("expected zero derivative at steady state, got %f", dx[0])
	}
}

func TestMotorDimensions(t *testing.T) {
	p := NewMotor()
	if p.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", p.StateDim())
	}
	if p.Output(loop.State{1.0, 42.0}) != 42.0 {
		t.Error("motor output should be angular velocity")
	}
}

func TestMotorSpinsUp(t *testing.T) {
	p := NewMotor()

	dx := p.Derive(loop.State{0, 0}, 12.0, 0)
	if dx[0] <= 0 {
		t.Errorf("voltage should drive current, got di=%f", dx[0])
	}

	dx = p.Derive(loop.State{1.0, 0}, 0, 0)
	if dx[1] <= 0 {
		t.Errorf("current should produce torque, got domega=%f", dx[1])
	}
}

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(loop.State{0, 0}, 0, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(loop.State{math.Pi / 2, 0}, 0, 0)

	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}
