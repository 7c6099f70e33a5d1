package loop

import "errors"

// Domain errors for closed-loop runs.
var (
	// ErrInvalidState indicates a plant state with NaN or Inf values.
	ErrInvalidState = errors.New("loop: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates an initial state that does not
	// match the plant's state dimension.
	ErrDimensionMismatch = errors.New("loop: initial state dimension mismatch")
)

// StepError wraps an error with the step it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
