// Package testutil provides testing utilities for psmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating seeded score fixtures, a naive
// reference implementation of greedy caliper matching, and checks for the
// 1:1 no-reuse matching contract.
//
// # Score Fixtures
//
//	rng := testutil.NewRNG(seed)
//	scores := rng.UniformScores(500)      // uniform (0, 1)
//	scores = rng.QuantizedScores(500, 20) // many exact ties
//	g := testutil.Group(treatedScores, controlScores)
//
// # Reference Matching
//
//	pairs := testutil.ReferenceGreedy(treatedScores, controlScores, caliper)
package testutil
