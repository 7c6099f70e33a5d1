// Package experiment assembles closed-loop runs from configuration:
// plant, integrator, controller, reference and the default metric set.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/loop"
)

type Experiment struct {
	cfg    *config.Config
	runner *loop.Runner
	ctrl   loop.Controller
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the loop from the registry. Call before Run.
func (e *Experiment) Setup(registry *Registry) error {
	p, err := registry.GetPlant(e.cfg.Plant)
	if err != nil {
		return err
	}

	stepper, err := registry.GetStepper(e.cfg.Integrator)
	if err != nil {
		return err
	}

	ctrl, err := registry.GetController(e.cfg.Controller, e.cfg.Dt, e.cfg.PID)
	if err != nil {
		return err
	}

	ref, err := registry.GetReference(e.cfg.Setpoint)
	if err != nil {
		return err
	}

	e.ctrl = ctrl
	e.runner = loop.New(p, stepper, ctrl, ref)
	for _, m := range registry.DefaultMetrics() {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*loop.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := loop.State(e.cfg.GetInitState())

	cfg := loop.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	}

	return e.runner.Run(ctx, x0, cfg)
}

// Controller returns the controller built during Setup.
func (e *Experiment) Controller() loop.Controller {
	return e.ctrl
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *loop.Runner {
	return e.runner
}
