package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformScores(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.UniformScores(100)

	assert.Len(t, s, 100)
	for _, v := range s {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, s, NewRNG(4711).UniformScores(100))
}

func TestQuantizedScores(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.QuantizedScores(200, 4)

	levels := map[float64]struct{}{}
	for _, v := range s {
		levels[v] = struct{}{}
	}
	assert.LessOrEqual(t, len(levels), 4)
}

func TestGroupAndTable(t *testing.T) {
	g := Group([]float64{0.1, 0.2}, []float64{0.3})
	require.Len(t, g.Treated, 2)
	require.Len(t, g.Control, 1)
	assert.Equal(t, 2, g.Control[0].Index)
	assert.False(t, g.Control[0].Treated)

	tbl := Table([]float64{0.1, 0.2}, []float64{0.3})
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.At(1).Treated)
	assert.Equal(t, 0.3, tbl.At(2).Outcome)
}

func TestReferenceGreedy(t *testing.T) {
	// The first treated unit takes the shared nearest control; the second
	// falls back to a control beyond the caliper and is dropped.
	pairs := ReferenceGreedy([]float64{0.50, 0.51}, []float64{0.505, 0.9}, 0.1)

	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Treated)
	assert.Equal(t, 0, pairs[0].Control)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, 3, Distinct([]int{1, 2, 2, 3, 1}))
	assert.Zero(t, Distinct(nil))
}
