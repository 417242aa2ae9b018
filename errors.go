package psmatch

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/match"
	"github.com/hupe1980/psmatch/propensity"
)

var (
	// ErrInvalidConfig is returned when a study configuration is rejected.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelFit is returned when the propensity model cannot be fitted or
	// its scores cannot be transformed.
	ErrModelFit = errors.New("propensity model fit failed")
)

// ConfigError reports the offending configuration field.
//
// It matches ErrInvalidConfig via errors.Is. The original underlying error
// (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func (e *ConfigError) Unwrap() error { return e.cause }

// FitError carries the solver diagnostic of a failed propensity fit.
//
// It matches ErrModelFit via errors.Is.
type FitError struct {
	Iterations int
	GradNorm   float64
	cause      error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%v: %v", ErrModelFit, e.cause)
}

func (e *FitError) Is(target error) bool { return target == ErrModelFit }

func (e *FitError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}

	// Configuration normalization.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{Field: fe.Field(), Reason: describeTag(fe), cause: err}
	}
	var pe *dataset.ParamError
	if errors.As(err, &pe) {
		return &ConfigError{Field: pe.Field, Reason: pe.Reason, cause: err}
	}
	if errors.Is(err, match.ErrInvalidCaliper) {
		return &ConfigError{Field: "caliper", Reason: match.ErrInvalidCaliper.Error(), cause: err}
	}
	if errors.Is(err, match.ErrInvalidIndex) {
		return &ConfigError{Field: "index", Reason: err.Error(), cause: err}
	}

	// Model fit normalization.
	var fe *propensity.FitError
	if errors.As(err, &fe) {
		return &FitError{Iterations: fe.Iterations, GradNorm: fe.GradNorm, cause: err}
	}
	if errors.Is(err, propensity.ErrDegenerateScore) {
		return fmt.Errorf("%w: %w", ErrModelFit, err)
	}

	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("must be less than %s, got %v", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
