package match

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexKind selects the nearest-neighbour structure used over controls.
type IndexKind int

const (
	IndexSorted IndexKind = iota
	IndexFlat
)

func (k IndexKind) String() string {
	switch k {
	case IndexSorted:
		return "sorted"
	case IndexFlat:
		return "flat"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseIndexKind maps "sorted" or "flat" to an IndexKind.
func ParseIndexKind(s string) (IndexKind, error) {
	switch s {
	case "", "sorted":
		return IndexSorted, nil
	case "flat":
		return IndexFlat, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidIndex, s)
	}
}

// scoreIndex answers nearest-unused-control queries. Positions are offsets
// into the control group, which is in table order.
type scoreIndex interface {
	// nearest returns the unused control closest to s. Equal distances
	// resolve to the lowest position.
	nearest(s float64) (pos int, dist float64, ok bool)
	// consume marks pos as used.
	consume(pos int)
}

func newIndex(kind IndexKind, scores []float64, used *roaring.Bitmap) (scoreIndex, error) {
	switch kind {
	case IndexSorted:
		return newSortedIndex(scores, used), nil
	case IndexFlat:
		return &flatIndex{scores: scores, used: used}, nil
	default:
		return nil, fmt.Errorf("%w %v", ErrInvalidIndex, kind)
	}
}

// flatIndex scans every control.
type flatIndex struct {
	scores []float64
	used   *roaring.Bitmap
}

func (f *flatIndex) nearest(s float64) (int, float64, bool) {
	best, bestDist := -1, math.Inf(1)
	for p, c := range f.scores {
		if f.used.Contains(uint32(p)) {
			continue
		}
		// Strict comparison keeps the first position on ties.
		if d := math.Abs(c - s); best < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist, best >= 0
}

func (f *flatIndex) consume(int) {}

// sortedIndex keeps controls sorted by (score, position). Consumed entries
// are skipped through two union-find style link arrays, one per direction.
type sortedIndex struct {
	scores []float64 // ascending
	pos    []int     // control position of each sorted entry
	rank   []int     // sorted offset of each control position

	// right[i] == i while entry i is alive; right[n] is a sentinel.
	right []int
	// left is shifted by one: left[i+1] tracks entry i, left[0] is a sentinel.
	left []int

	used  *roaring.Bitmap
	alive int
}

func newSortedIndex(scores []float64, used *roaring.Bitmap) *sortedIndex {
	n := len(scores)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(scores[a], scores[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	idx := &sortedIndex{
		scores: make([]float64, n),
		pos:    order,
		rank:   make([]int, n),
		right:  make([]int, n+1),
		left:   make([]int, n+1),
		used:   used,
	}
	for i, p := range order {
		idx.scores[i] = scores[p]
		idx.rank[p] = i
	}
	for i := range idx.right {
		idx.right[i] = i
		idx.left[i] = i
	}
	// Honour positions consumed before the index was built.
	for i, p := range order {
		if used.Contains(uint32(p)) {
			idx.unlink(i)
		} else {
			idx.alive++
		}
	}
	return idx
}

func (x *sortedIndex) findRight(i int) int {
	for x.right[i] != i {
		x.right[i] = x.right[x.right[i]]
		i = x.right[i]
	}
	return i
}

func (x *sortedIndex) findLeft(i int) int {
	j := i + 1
	for x.left[j] != j {
		x.left[j] = x.left[x.left[j]]
		j = x.left[j]
	}
	return j - 1
}

func (x *sortedIndex) unlink(i int) {
	x.right[i] = i + 1
	x.left[i+1] = i
}

func (x *sortedIndex) nearest(s float64) (int, float64, bool) {
	if x.alive == 0 {
		return -1, math.Inf(1), false
	}
	n := len(x.scores)
	i := sort.SearchFloat64s(x.scores, s)
	r := x.findRight(i)
	l := x.findLeft(i - 1)

	dist := math.Inf(1)
	if r < n {
		dist = x.scores[r] - s
	}
	if l >= 0 {
		dist = min(dist, s-x.scores[l])
	}

	best := -1
	if r < n && x.scores[r]-s == dist {
		v := x.scores[r]
		for k := r; k < n && x.scores[k] == v; k = x.findRight(k + 1) {
			if best < 0 || x.pos[k] < best {
				best = x.pos[k]
			}
		}
	}
	if l >= 0 && s-x.scores[l] == dist {
		v := x.scores[l]
		for k := l; k >= 0 && x.scores[k] == v; k = x.findLeft(k - 1) {
			if best < 0 || x.pos[k] < best {
				best = x.pos[k]
			}
		}
	}
	return best, dist, true
}

func (x *sortedIndex) consume(p int) {
	x.unlink(x.rank[p])
	x.alive--
}
