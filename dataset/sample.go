package dataset

import (
	"math"
	"slices"
)

// Sample is a single generated observation.
type Sample struct {
	// Index is the position of the sample in its table and is unique within it.
	Index       int
	Confounders []float64
	Treated     bool
	Outcome     float64
}

// ScoredSample is a Sample tagged with a derived score (propensity or
// logit-propensity).
type ScoredSample struct {
	Sample
	Score float64
}

// Group partitions scored samples by treatment flag.
// Both sides keep the original table order.
type Group struct {
	Treated []ScoredSample
	Control []ScoredSample
}

// Table is an immutable, ordered collection of samples sharing one
// confounder dimensionality.
type Table struct {
	samples []Sample
	dim     int
}

// NewTable wraps samples into a Table. Sample indexes are reassigned to match
// slice positions so that Index is always a valid lookup key.
func NewTable(samples []Sample) *Table {
	dim := 0
	if len(samples) > 0 {
		dim = len(samples[0].Confounders)
	}
	owned := make([]Sample, len(samples))
	for i, s := range samples {
		s.Index = i
		s.Confounders = slices.Clone(s.Confounders)
		owned[i] = s
	}
	return &Table{samples: owned, dim: dim}
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.samples) }

// Dim returns the number of confounders per sample.
func (t *Table) Dim() int { return t.dim }

// At returns the sample at index i.
func (t *Table) At(i int) Sample { return t.samples[i] }

// Samples returns a copy of the sample slice header. Confounder slices are
// shared and must be treated as read-only.
func (t *Table) Samples() []Sample { return slices.Clone(t.samples) }

// Features returns the confounder matrix, one row per sample.
func (t *Table) Features() [][]float64 {
	x := make([][]float64, len(t.samples))
	for i := range t.samples {
		x[i] = t.samples[i].Confounders
	}
	return x
}

// Labels returns the treatment flags in table order.
func (t *Table) Labels() []bool {
	y := make([]bool, len(t.samples))
	for i := range t.samples {
		y[i] = t.samples[i].Treated
	}
	return y
}

// Counts returns the number of treated and control samples.
func (t *Table) Counts() (treated, control int) {
	for i := range t.samples {
		if t.samples[i].Treated {
			treated++
		} else {
			control++
		}
	}
	return treated, control
}

// Means returns the per-confounder means of the treated and the control
// samples. A side with no samples yields NaN for every confounder.
func (t *Table) Means() (treated, control []float64) {
	treated = make([]float64, t.dim)
	control = make([]float64, t.dim)
	var nt, nc int
	for i := range t.samples {
		s := &t.samples[i]
		dst := control
		if s.Treated {
			dst = treated
			nt++
		} else {
			nc++
		}
		for j, v := range s.Confounders {
			dst[j] += v
		}
	}
	scale(treated, nt)
	scale(control, nc)
	return treated, control
}

func scale(sums []float64, n int) {
	for j := range sums {
		if n == 0 {
			sums[j] = math.NaN()
			continue
		}
		sums[j] /= float64(n)
	}
}

// Outcomes returns the outcomes of the treated and the control samples, each
// in table order.
func (t *Table) Outcomes() (treated, control []float64) {
	for i := range t.samples {
		if t.samples[i].Treated {
			treated = append(treated, t.samples[i].Outcome)
		} else {
			control = append(control, t.samples[i].Outcome)
		}
	}
	return treated, control
}

// Partition splits the table into treated and control groups, tagging every
// sample with scores[sample.Index]. It panics if len(scores) != t.Len().
func (t *Table) Partition(scores []float64) Group {
	if len(scores) != len(t.samples) {
		panic("dataset: score count does not match table length")
	}
	var g Group
	for i := range t.samples {
		ss := ScoredSample{Sample: t.samples[i], Score: scores[i]}
		if ss.Treated {
			g.Treated = append(g.Treated, ss)
		} else {
			g.Control = append(g.Control, ss)
		}
	}
	return g
}
