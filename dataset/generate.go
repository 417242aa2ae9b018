package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Params describes the synthetic causal model.
type Params struct {
	Seed int64
	N    int
	// ConfounderMeans defaults to all zeros when nil.
	ConfounderMeans []float64
	ConfounderSDs   []float64
	TreatmentProb   float64
	EffectSize      float64
	NoiseSD         float64
}

// ParamError reports an invalid generator parameter.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid generator parameter %s: %s", e.Field, e.Reason)
}

// Validate checks p and returns a *ParamError for the first violation.
func (p Params) Validate() error {
	if p.N <= 0 {
		return &ParamError{Field: "N", Reason: fmt.Sprintf("must be positive, got %d", p.N)}
	}
	if len(p.ConfounderSDs) == 0 {
		return &ParamError{Field: "ConfounderSDs", Reason: "at least one confounder is required"}
	}
	for i, sd := range p.ConfounderSDs {
		if !(sd > 0) || math.IsInf(sd, 0) {
			return &ParamError{Field: fmt.Sprintf("ConfounderSDs[%d]", i), Reason: fmt.Sprintf("must be positive and finite, got %v", sd)}
		}
	}
	if p.ConfounderMeans != nil && len(p.ConfounderMeans) != len(p.ConfounderSDs) {
		return &ParamError{Field: "ConfounderMeans", Reason: fmt.Sprintf("expected %d means, got %d", len(p.ConfounderSDs), len(p.ConfounderMeans))}
	}
	for i, mu := range p.ConfounderMeans {
		if math.IsNaN(mu) || math.IsInf(mu, 0) {
			return &ParamError{Field: fmt.Sprintf("ConfounderMeans[%d]", i), Reason: "must be finite"}
		}
	}
	if !(p.TreatmentProb >= 0 && p.TreatmentProb <= 1) {
		return &ParamError{Field: "TreatmentProb", Reason: fmt.Sprintf("must be in [0, 1], got %v", p.TreatmentProb)}
	}
	if math.IsNaN(p.EffectSize) || math.IsInf(p.EffectSize, 0) {
		return &ParamError{Field: "EffectSize", Reason: "must be finite"}
	}
	if !(p.NoiseSD >= 0) || math.IsInf(p.NoiseSD, 0) {
		return &ParamError{Field: "NoiseSD", Reason: fmt.Sprintf("must be non-negative and finite, got %v", p.NoiseSD)}
	}
	return nil
}

// Generate draws p.N samples from the causal model described by p.
//
// Draws are taken column-wise from a single PCG stream seeded by p.Seed:
// each confounder column in order, then the treatment column, then the noise
// column. The same Params always yield the same table.
func Generate(p Params) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := NewRNG(p.Seed)
	dim := len(p.ConfounderSDs)

	data := make([]float64, p.N*dim)
	samples := make([]Sample, p.N)
	for i := range samples {
		samples[i].Index = i
		samples[i].Confounders = data[i*dim : (i+1)*dim : (i+1)*dim]
	}

	for j, sd := range p.ConfounderSDs {
		mu := 0.0
		if p.ConfounderMeans != nil {
			mu = p.ConfounderMeans[j]
		}
		for i := range samples {
			samples[i].Confounders[j] = rng.Normal(mu, sd)
		}
	}

	for i := range samples {
		samples[i].Treated = rng.Bernoulli(p.TreatmentProb)
	}

	for i := range samples {
		s := &samples[i]
		y := rng.Normal(0, p.NoiseSD)
		for _, c := range s.Confounders {
			y += c
		}
		if s.Treated {
			y += p.EffectSize
		}
		s.Outcome = y
	}

	return &Table{samples: samples, dim: dim}, nil
}

// RNG is a seeded source of the draws the generator needs.
// It is not safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(uint64(seed), uint64(seed))), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Normal returns a draw from N(mu, sd²).
func (r *RNG) Normal(mu, sd float64) float64 {
	return mu + sd*r.rand.NormFloat64()
}

// Bernoulli returns true with probability p.
func (r *RNG) Bernoulli(p float64) bool {
	return r.rand.Float64() < p
}
