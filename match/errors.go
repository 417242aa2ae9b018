package match

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCaliper is returned when the caliper is not a positive number.
	ErrInvalidCaliper = errors.New("caliper must be positive")

	// ErrInvalidScore is returned when a score is NaN or infinite.
	ErrInvalidScore = errors.New("score must be finite")

	// ErrInvalidIndex is returned for an unknown IndexKind.
	ErrInvalidIndex = errors.New("unknown index kind")
)

// ErrInvariant indicates a matching that violates the 1:1 no-reuse contract.
type ErrInvariant struct {
	Role  string
	Index int
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("%s index %d appears in more than one match", e.Role, e.Index)
}
