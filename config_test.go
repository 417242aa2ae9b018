package psmatch

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(460), cfg.Seed)
	assert.Equal(t, []float64{2.5, 1, 1.8, 2}, cfg.ConfounderSDs)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"zero n", func(c *Config) { c.N = 0 }, "n"},
		{"no confounders", func(c *Config) { c.ConfounderSDs = nil }, "confounder_sds"},
		{"negative sd", func(c *Config) { c.ConfounderSDs = []float64{1, -2} }, "confounder_sds[1]"},
		{"probability above one", func(c *Config) { c.TreatmentProb = 1.5 }, "treatment_prob"},
		{"negative noise", func(c *Config) { c.NoiseSD = -1 }, "noise_sd"},
		{"zero caliper", func(c *Config) { c.Caliper = 0 }, "caliper"},
		{"nan caliper", func(c *Config) { c.Caliper = math.NaN() }, "caliper"},
		{"clip too large", func(c *Config) { c.ClipEpsilon = 0.5 }, "clip_epsilon"},
		{"zero regularization", func(c *Config) { c.Regularization = 0 }, "regularization"},
		{"zero max iter", func(c *Config) { c.MaxIter = 0 }, "max_iter"},
		{"unknown index", func(c *Config) { c.Index = "hnsw" }, "index"},
		{"means length", func(c *Config) { c.ConfounderMeans = []float64{1} }, "ConfounderMeans"},
		{"nan mean", func(c *Config) { c.ConfounderMeans = []float64{0, math.NaN(), 0, 0} }, "ConfounderMeans[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
			assert.NotEmpty(t, ce.Reason)
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
seed: 7
n: 500
confounder_sds: [1, 2]
caliper: 0.05
index: flat
`))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 500, cfg.N)
	assert.Equal(t, []float64{1, 2}, cfg.ConfounderSDs)
	assert.Equal(t, 0.05, cfg.Caliper)
	assert.Equal(t, "flat", cfg.Index)
	// Unset keys keep their defaults.
	assert.Equal(t, 10.0, cfg.EffectSize)
	assert.Equal(t, 0.5, cfg.TreatmentProb)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := ParseConfig([]byte("calipr: 0.1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("caliper: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig([]byte("n: [1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.ConfounderMeans = []float64{1, 0, -1, 0.5}

	data, err := cfg.YAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
