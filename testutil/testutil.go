package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/psmatch/dataset"
)

// Pair is a reference match expressed as group positions.
type Pair struct {
	Treated  int
	Control  int
	Distance float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformScores returns n scores drawn uniformly from the open interval (0, 1).
func (r *RNG) UniformScores(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make([]float64, n)
	for i := range scores {
		v := r.rand.Float64()
		for v == 0 {
			v = r.rand.Float64()
		}
		scores[i] = v
	}
	return scores
}

// QuantizedScores returns n scores restricted to levels evenly spaced values
// in (0, 1), which produces many exact distance ties.
func (r *RNG) QuantizedScores(n, levels int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = float64(r.rand.Intn(levels)+1) / float64(levels+1)
	}
	return scores
}

// Group builds a dataset.Group whose treated samples take table indexes
// 0..len(treated)-1 and whose controls follow. Outcomes equal the scores.
func Group(treated, control []float64) dataset.Group {
	var g dataset.Group
	for i, s := range treated {
		g.Treated = append(g.Treated, dataset.ScoredSample{
			Sample: dataset.Sample{Index: i, Treated: true, Outcome: s, Confounders: []float64{s}},
			Score:  s,
		})
	}
	for i, s := range control {
		g.Control = append(g.Control, dataset.ScoredSample{
			Sample: dataset.Sample{Index: len(treated) + i, Outcome: s, Confounders: []float64{s}},
			Score:  s,
		})
	}
	return g
}

// Table builds the dataset.Table matching Group(treated, control).
func Table(treated, control []float64) *dataset.Table {
	g := Group(treated, control)
	samples := make([]dataset.Sample, 0, len(treated)+len(control))
	for _, s := range g.Treated {
		samples = append(samples, s.Sample)
	}
	for _, s := range g.Control {
		samples = append(samples, s.Sample)
	}
	return dataset.NewTable(samples)
}

// ReferenceGreedy is a naive O(m·n) greedy caliper matching used as ground
// truth. Ties resolve to the lowest control position.
func ReferenceGreedy(treated, control []float64, caliper float64) []Pair {
	used := make([]bool, len(control))
	var pairs []Pair
	for t, s := range treated {
		best, bestDist := -1, math.Inf(1)
		for c, v := range control {
			if used[c] {
				continue
			}
			if d := math.Abs(v - s); d < bestDist {
				best, bestDist = c, d
			}
		}
		if best < 0 || bestDist > caliper {
			continue
		}
		used[best] = true
		pairs = append(pairs, Pair{Treated: t, Control: best, Distance: bestDist})
	}
	return pairs
}

// Distinct returns the number of distinct non-negative ids.
func Distinct(ids []int) int {
	rb := roaring.New()
	for _, id := range ids {
		rb.Add(uint32(id))
	}
	return int(rb.GetCardinality())
}
