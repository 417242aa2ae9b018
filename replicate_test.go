package psmatch

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/psmatch/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplicate(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 1000
	seeds := []int64{460, 461, 462, 463}

	rep, err := Replicate(context.Background(), cfg, seeds, 2)
	require.NoError(t, err)
	require.Len(t, rep.Reports, len(seeds))

	for i, r := range rep.Reports {
		require.NotNil(t, r)
		assert.Equal(t, seeds[i], r.Seed)
	}

	single, err := Run(context.Background(), withSeed(cfg, 462))
	require.NoError(t, err)
	assert.Equal(t, single.String(), rep.Reports[2].String())

	summary := rep.Summary()
	require.Len(t, summary, len(Methods))
	for _, s := range summary {
		assert.Equal(t, len(seeds), s.Runs)
		assert.InDelta(t, 10, s.Mean, 1)
		assert.InDelta(t, s.Mean-10, s.Bias, 1e-12)
		assert.Greater(t, s.StdDev, 0.0)
	}

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	assert.Contains(t, buf.String(), "True effect: 10.0000")
	assert.Contains(t, buf.String(), "Logit: mean")
}

func TestReplicate_SharedController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	cfg := smallConfig()
	cfg.N = 500

	rep, err := Replicate(context.Background(), cfg, []int64{1, 2}, 8, WithResourceController(rc))
	require.NoError(t, err)
	assert.Len(t, rep.Reports, 2)
	assert.Zero(t, rc.ActiveWorkers())
}

func TestReplicate_Errors(t *testing.T) {
	_, err := Replicate(context.Background(), DefaultConfig(), nil, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := DefaultConfig()
	bad.Caliper = -1
	_, err = Replicate(context.Background(), bad, []int64{1}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Replicate(ctx, smallConfig(), []int64{1, 2, 3}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func withSeed(cfg Config, seed int64) Config {
	cfg = cfg.Clone()
	cfg.Seed = seed
	return cfg
}
