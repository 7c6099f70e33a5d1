package loop

import (
	"context"
	"fmt"
)

// Runner drives one plant, one controller and one reference signal
// through a fixed-step closed loop: at every step the plant output is
// compared against the reference and the resulting error is fed to the
// controller, whose output actuates the plant for the next step.
type Runner struct {
	plant     Plant
	stepper   Stepper
	ctrl      Controller
	ref       Reference
	metrics   []Metric
	observers []Observer
}

func New(plant Plant, stepper Stepper, ctrl Controller, ref Reference) *Runner {
	return &Runner{
		plant:     plant,
		stepper:   stepper,
		ctrl:      ctrl,
		ref:       ref,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := r.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:     make([]float64, 0, steps),
		Setpoints: make([]float64, 0, steps),
		Outputs:   make([]float64, 0, steps),
		Controls:  make([]float64, 0, steps),
		States:    make([]State, 0, steps),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s := r.sample(x, t)

		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, obs := range r.observers {
			obs.OnStep(s)
		}

		result.Times = append(result.Times, s.T)
		result.Setpoints = append(result.Setpoints, s.Setpoint)
		result.Outputs = append(result.Outputs, s.Output)
		result.Controls = append(result.Controls, s.Control)
		result.States = append(result.States, x.Clone())
		result.StepsTaken++

		x = r.stepper.Step(r.plant, x, s.Control, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &StepError{Step: i, Time: t, Wrapped: ErrInvalidState})
			break
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams samples to cb instead of collecting a
// Result; returning false from cb stops the run.
func (r *Runner) RunWithCallback(ctx context.Context, x0 State, cfg Config, cb func(Sample) bool) error {
	if err := r.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s := r.sample(x, t)

		if !cb(s) {
			return nil
		}

		x = r.stepper.Step(r.plant, x, s.Control, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return &StepError{Time: t, Wrapped: ErrInvalidState}
		}
	}

	return nil
}

func (r *Runner) sample(x State, t float64) Sample {
	y := r.plant.Output(x)
	sp := r.ref.At(t)
	e := sp - y
	u := r.ctrl.Step(e)

	return Sample{
		T:        t,
		Setpoint: sp,
		Output:   y,
		Err:      e,
		Control:  u,
		State:    x,
	}
}

func (r *Runner) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if len(x0) != r.plant.StateDim() {
		return ErrDimensionMismatch
	}
	return nil
}
