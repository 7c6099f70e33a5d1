package pid

import "errors"

// Construction errors.
var (
	// ErrNonPositiveDt indicates a zero or negative sampling interval.
	ErrNonPositiveDt = errors.New("pid: dt must be positive")

	// ErrInvertedClamp indicates clamp bounds with lo >= hi.
	ErrInvertedClamp = errors.New("pid: clamp lower bound must be below upper bound")

	// ErrNonFinite indicates a NaN or Inf construction parameter.
	ErrNonFinite = errors.New("pid: parameter is not finite")
)
