package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/pid"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"thermal", "motor", "pendulum"} {
		if _, err := r.GetPlant(name); err != nil {
			t.Errorf("expected plant %s, got error: %v", name, err)
		}
	}
	if _, err := r.GetPlant("bogus"); err == nil {
		t.Error("expected error for unknown plant")
	}

	for _, name := range []string{"euler", "rk4"} {
		if _, err := r.GetStepper(name); err != nil {
			t.Errorf("expected integrator %s, got error: %v", name, err)
		}
	}
	if _, err := r.GetStepper("bogus"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	if len(r.ListPlants()) != 3 {
		t.Errorf("expected 3 plants, got %d", len(r.ListPlants()))
	}
}

func TestGetControllerPID(t *testing.T) {
	r := NewRegistry()

	pc := config.PIDConfig{Kp: 2, Ki: 1, Kd: 0.5, ClampLo: -10, ClampHi: 10, Smooth: 0.8}
	ctrl, err := r.GetController("pid", 0.01, pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := ctrl.(*pid.Controller)
	if !ok {
		t.Fatal("expected a *pid.Controller")
	}
	if c.Kp() != 2 || c.Ki() != 1 || c.Kd() != 0.5 || c.Smooth() != 0.8 {
		t.Error("config gains not applied")
	}

	// Inverted clamp bounds surface as a construction error.
	pc.ClampLo, pc.ClampHi = 10, -10
	if _, err := r.GetController("pid", 0.01, pc); err == nil {
		t.Error("expected error for inverted clamp bounds")
	}

	if _, err := r.GetController("bogus", 0.01, pc); err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestGetReference(t *testing.T) {
	r := NewRegistry()

	for _, profile := range []string{"step", "ramp", "sine", "square", "constant", ""} {
		if _, err := r.GetReference(config.SetpointConfig{Profile: profile, Level: 1}); err != nil {
			t.Errorf("profile %q: unexpected error: %v", profile, err)
		}
	}
	if _, err := r.GetReference(config.SetpointConfig{Profile: "sawtooth"}); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 1.0

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("run before setup should fail")
	}

	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != int(cfg.Duration/cfg.Dt) {
		t.Errorf("expected %d steps, got %d", int(cfg.Duration/cfg.Dt), result.StepsTaken)
	}
	if _, ok := result.Metrics["iae"]; !ok {
		t.Error("expected default metrics in result")
	}
}
