// Package dataset generates and holds the synthetic observational data that a
// propensity score study runs on.
//
// Every sample carries a confounder vector, a binary treatment flag and a
// continuous outcome drawn from a known causal model:
//
//	outcome = effect × treated + Σ confounders + noise
//
// Treatment is drawn Bernoulli(p) independently of the confounders. Tables are
// immutable once generated; downstream stages derive new values (scores,
// groups, matched sets) instead of mutating samples.
//
// # Usage
//
//	tbl, err := dataset.Generate(dataset.Params{
//	    Seed:          460,
//	    N:             10000,
//	    ConfounderSDs: []float64{2.5, 1.0, 1.8, 2.0},
//	    TreatmentProb: 0.5,
//	    EffectSize:    10,
//	    NoiseSD:       3,
//	})
package dataset
