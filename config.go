package psmatch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/match"
	"github.com/hupe1980/psmatch/propensity"
	"gopkg.in/yaml.v3"
)

// Config describes one study: the synthetic population, the propensity model
// and the matcher.
type Config struct {
	Seed int64 `yaml:"seed"`
	N    int   `yaml:"n" validate:"gt=0"`

	// ConfounderMeans defaults to all zeros when empty.
	ConfounderMeans []float64 `yaml:"confounder_means,omitempty"`
	ConfounderSDs   []float64 `yaml:"confounder_sds" validate:"required,min=1,dive,gt=0"`
	TreatmentProb   float64   `yaml:"treatment_prob" validate:"gte=0,lte=1"`
	EffectSize      float64   `yaml:"effect_size"`
	NoiseSD         float64   `yaml:"noise_sd" validate:"gte=0"`

	// Caliper is the largest accepted score distance. It applies in the score
	// space of each method, so the same value is stricter on logit scores.
	Caliper float64 `yaml:"caliper" validate:"gt=0"`

	// ClipEpsilon clips propensities into [eps, 1-eps] before the logit.
	// Zero disables clipping and makes a propensity of exactly 0 or 1 an error.
	ClipEpsilon    float64 `yaml:"clip_epsilon" validate:"gte=0,lt=0.5"`
	Regularization float64 `yaml:"regularization" validate:"gt=0"`
	MaxIter        int     `yaml:"max_iter" validate:"gt=0"`
	Tolerance      float64 `yaml:"tolerance" validate:"gt=0"`

	// Index is "sorted" or "flat".
	Index string `yaml:"index" validate:"oneof=sorted flat"`
}

// DefaultConfig returns the reference scenario: four confounders, 10,000
// samples and a true effect of 10.
func DefaultConfig() Config {
	return Config{
		Seed:           460,
		N:              10000,
		ConfounderSDs:  []float64{2.5, 1, 1.8, 2},
		TreatmentProb:  0.5,
		EffectSize:     10,
		NoiseSD:        3,
		Caliper:        0.2,
		Regularization: 1,
		MaxIter:        100,
		Tolerance:      1e-6,
		Index:          match.IndexSorted.String(),
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks c and returns a *ConfigError for the first violation.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return translateError(err)
	}
	return translateError(c.params().Validate())
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.ConfounderMeans = slices.Clone(c.ConfounderMeans)
	c.ConfounderSDs = slices.Clone(c.ConfounderSDs)
	return c
}

func (c Config) params() dataset.Params {
	p := dataset.Params{
		Seed:          c.Seed,
		N:             c.N,
		ConfounderSDs: c.ConfounderSDs,
		TreatmentProb: c.TreatmentProb,
		EffectSize:    c.EffectSize,
		NoiseSD:       c.NoiseSD,
	}
	if len(c.ConfounderMeans) > 0 {
		p.ConfounderMeans = c.ConfounderMeans
	}
	return p
}

func (c Config) fitOptions() []propensity.Option {
	return []propensity.Option{
		propensity.WithC(c.Regularization),
		propensity.WithMaxIter(c.MaxIter),
		propensity.WithTolerance(c.Tolerance),
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// YAML encodes c in the format ParseConfig reads.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
