package match

import (
	"context"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/psmatch/dataset"
)

// pollInterval is how many treated units are processed between context checks.
const pollInterval = 1024

// Match pairs a treated sample with a control sample.
type Match struct {
	Treated  int     `json:"treated"`
	Control  int     `json:"control"`
	Distance float64 `json:"distance"`
}

// Result is the outcome of one matching pass.
type Result struct {
	Caliper float64   `json:"caliper"`
	Index   IndexKind `json:"-"`
	Matches []Match   `json:"matches"`
	// Unmatched holds the table indexes of excluded treated units, in visit order.
	Unmatched []int `json:"unmatched"`
	// TreatedCount and ControlCount are the group sizes the pass started from.
	TreatedCount int `json:"treated_count"`
	ControlCount int `json:"control_count"`
}

// Len returns the number of accepted matches. It is safe on a nil Result.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Matches)
}

// MeanDistance returns the average score distance of accepted matches, or NaN
// when there are none.
func (r *Result) MeanDistance() float64 {
	if r.Len() == 0 {
		return math.NaN()
	}
	var sum float64
	for _, m := range r.Matches {
		sum += m.Distance
	}
	return sum / float64(len(r.Matches))
}

// MaxDistance returns the largest accepted distance, or NaN when there are
// no matches.
func (r *Result) MaxDistance() float64 {
	if r.Len() == 0 {
		return math.NaN()
	}
	maxDist := r.Matches[0].Distance
	for _, m := range r.Matches[1:] {
		maxDist = max(maxDist, m.Distance)
	}
	return maxDist
}

// Validate checks that no treated or control index is used twice and that
// every distance respects the caliper.
func (r *Result) Validate() error {
	if r == nil {
		return nil
	}
	treated := roaring.New()
	control := roaring.New()
	for _, m := range r.Matches {
		if !treated.CheckedAdd(uint32(m.Treated)) {
			return &ErrInvariant{Role: "treated", Index: m.Treated}
		}
		if !control.CheckedAdd(uint32(m.Control)) {
			return &ErrInvariant{Role: "control", Index: m.Control}
		}
		if m.Distance > r.Caliper {
			return fmt.Errorf("match (%d, %d) distance %v exceeds caliper %v", m.Treated, m.Control, m.Distance, r.Caliper)
		}
	}
	return nil
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithIndex selects the nearest-neighbour structure.
func WithIndex(kind IndexKind) Option {
	return func(m *Matcher) {
		m.index = kind
	}
}

// Matcher performs greedy caliper matching. It holds no per-run state and is
// safe for concurrent use.
type Matcher struct {
	caliper float64
	index   IndexKind
}

// New creates a Matcher. A caliper that is not a positive number is a
// configuration error.
func New(caliper float64, optFns ...Option) (*Matcher, error) {
	if !(caliper > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCaliper, caliper)
	}
	m := &Matcher{caliper: caliper, index: IndexSorted}
	for _, fn := range optFns {
		fn(m)
	}
	return m, nil
}

// Caliper returns the configured caliper.
func (m *Matcher) Caliper() float64 { return m.caliper }

// Match pairs every treated unit of g with its nearest unused control within
// the caliper. An empty side yields an empty Result.
func (m *Matcher) Match(ctx context.Context, g dataset.Group) (*Result, error) {
	res := &Result{
		Caliper:      m.caliper,
		Index:        m.index,
		TreatedCount: len(g.Treated),
		ControlCount: len(g.Control),
	}

	controls := make([]float64, len(g.Control))
	for i, c := range g.Control {
		if math.IsNaN(c.Score) || math.IsInf(c.Score, 0) {
			return nil, fmt.Errorf("%w: control %d has score %v", ErrInvalidScore, c.Index, c.Score)
		}
		controls[i] = c.Score
	}
	for _, t := range g.Treated {
		if math.IsNaN(t.Score) || math.IsInf(t.Score, 0) {
			return nil, fmt.Errorf("%w: treated %d has score %v", ErrInvalidScore, t.Index, t.Score)
		}
	}

	// used holds consumed control positions; it lives for this call only.
	used := roaring.New()
	idx, err := newIndex(m.index, controls, used)
	if err != nil {
		return nil, err
	}

	for i, t := range g.Treated {
		if i%pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		pos, dist, ok := idx.nearest(t.Score)
		if !ok || dist > m.caliper {
			res.Unmatched = append(res.Unmatched, t.Index)
			continue
		}

		used.Add(uint32(pos))
		idx.consume(pos)
		res.Matches = append(res.Matches, Match{
			Treated:  t.Index,
			Control:  g.Control[pos].Index,
			Distance: dist,
		})
	}

	return res, nil
}

// Greedy is a convenience wrapper around New and Match.
func Greedy(ctx context.Context, g dataset.Group, caliper float64, optFns ...Option) (*Result, error) {
	m, err := New(caliper, optFns...)
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, g)
}
