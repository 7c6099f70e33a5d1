package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pidlab/internal/loop"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	m.Observe(loop.Sample{Control: 2.0})
	m.Observe(loop.Sample{Control: -4.0})

	if m.Value() != 3.0 {
		t.Errorf("expected mean |u| of 3.0, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestIAE(t *testing.T) {
	m := NewIAE()

	m.Observe(loop.Sample{T: 0.0, Err: 1.0})
	m.Observe(loop.Sample{T: 0.5, Err: -2.0})
	m.Observe(loop.Sample{T: 1.0, Err: 1.0})

	// 0.5*|-2| + 0.5*|1| = 1.5
	if math.Abs(m.Value()-1.5) > 1e-12 {
		t.Errorf("expected iae 1.5, got %f", m.Value())
	}
}

func TestISE(t *testing.T) {
	m := NewISE()

	m.Observe(loop.Sample{T: 0.0, Err: 1.0})
	m.Observe(loop.Sample{T: 1.0, Err: 3.0})

	if math.Abs(m.Value()-9.0) > 1e-12 {
		t.Errorf("expected ise 9.0, got %f", m.Value())
	}
}

func TestOvershoot(t *testing.T) {
	m := NewOvershoot()

	m.Observe(loop.Sample{Setpoint: 10.0, Output: 9.0})
	if m.Value() != 0 {
		t.Errorf("undershoot should not count, got %f", m.Value())
	}

	m.Observe(loop.Sample{Setpoint: 10.0, Output: 12.5})
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected 25%% overshoot, got %f", m.Value())
	}

	// Negative setpoint: output below it is the overshoot direction.
	m.Reset()
	m.Observe(loop.Sample{Setpoint: -10.0, Output: -11.0})
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected 10%% overshoot, got %f", m.Value())
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.02)

	m.Observe(loop.Sample{T: 0.0, Setpoint: 10, Output: 0, Err: 10})
	m.Observe(loop.Sample{T: 1.0, Setpoint: 10, Output: 9.9, Err: 0.1})
	m.Observe(loop.Sample{T: 2.0, Setpoint: 10, Output: 10.5, Err: -0.5})
	m.Observe(loop.Sample{T: 3.0, Setpoint: 10, Output: 10.1, Err: -0.1})
	m.Observe(loop.Sample{T: 4.0, Setpoint: 10, Output: 10.05, Err: -0.05})

	// Entered the 2% band at t=3 and stayed.
	if m.Value() != 3.0 {
		t.Errorf("expected settling at t=3.0, got %f", m.Value())
	}
}

func TestSettlingTimeNeverSettles(t *testing.T) {
	m := NewSettlingTime(0.02)

	m.Observe(loop.Sample{T: 0.0, Setpoint: 10, Output: 0, Err: 10})
	m.Observe(loop.Sample{T: 5.0, Setpoint: 10, Output: 5, Err: 5})

	if m.Value() != 5.0 {
		t.Errorf("unsettled loop should report run duration, got %f", m.Value())
	}
}
