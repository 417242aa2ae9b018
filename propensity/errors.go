package propensity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConverged is returned when the solver exhausts its iteration budget.
	ErrNotConverged = errors.New("logistic regression did not converge")

	// ErrSingleClass is returned when all labels are identical.
	ErrSingleClass = errors.New("labels contain a single class")

	// ErrEmptyInput is returned when there are no training rows.
	ErrEmptyInput = errors.New("no training rows")

	// ErrDegenerateScore is returned when a probability of exactly 0 or 1
	// (or outside that range) is logit-transformed without clipping.
	ErrDegenerateScore = errors.New("propensity outside the open interval (0, 1)")
)

// FitError carries the solver diagnostic of a failed fit.
//
// The underlying cause can be accessed via errors.Unwrap.
type FitError struct {
	Iterations int
	// GradNorm is the max-abs gradient of the penalised loss at the last iterate.
	GradNorm float64
	cause    error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("propensity fit failed after %d iterations (gradient norm %.3g): %v", e.Iterations, e.GradNorm, e.cause)
}

func (e *FitError) Unwrap() error { return e.cause }
