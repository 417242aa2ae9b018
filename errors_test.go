package psmatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/match"
	"github.com/hupe1980/psmatch/propensity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))

	err := translateError(fmt.Errorf("raw matching: %w", match.ErrInvalidCaliper))
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "caliper", ce.Field)
	assert.ErrorIs(t, err, match.ErrInvalidCaliper)

	err = translateError(&dataset.ParamError{Field: "N", Reason: "must be positive"})
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "N", ce.Field)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = translateError(&propensity.FitError{Iterations: 100, GradNorm: 0.5})
	var fe *FitError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 100, fe.Iterations)
	assert.Equal(t, 0.5, fe.GradNorm)
	assert.ErrorIs(t, err, ErrModelFit)

	err = translateError(fmt.Errorf("sample 3: %w", propensity.ErrDegenerateScore))
	assert.ErrorIs(t, err, ErrModelFit)
	assert.ErrorIs(t, err, propensity.ErrDegenerateScore)
}
