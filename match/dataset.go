package match

import (
	"slices"

	"github.com/hupe1980/psmatch/dataset"
)

// Row is one member of a matched pair.
type Row struct {
	// Pair is the position of the owning Match in Result.Matches.
	Pair int
	dataset.Sample
}

// MatchedDataset holds both members of every accepted match with their
// original attributes.
type MatchedDataset struct {
	Rows []Row
}

// Dataset materialises the matched samples from tbl. Rows are emitted pair by
// pair, treated member first.
func (r *Result) Dataset(tbl *dataset.Table) MatchedDataset {
	if r.Len() == 0 {
		return MatchedDataset{}
	}
	rows := make([]Row, 0, 2*len(r.Matches))
	for k, m := range r.Matches {
		rows = append(rows,
			Row{Pair: k, Sample: tbl.At(m.Treated)},
			Row{Pair: k, Sample: tbl.At(m.Control)},
		)
	}
	return MatchedDataset{Rows: rows}
}

// Len returns the number of rows.
func (d MatchedDataset) Len() int { return len(d.Rows) }

// Split returns the treated and control rows, each ordered by pair id so the
// i-th entries of both slices belong to the same match.
func (d MatchedDataset) Split() (treated, control []Row) {
	for _, r := range d.Rows {
		if r.Treated {
			treated = append(treated, r)
		} else {
			control = append(control, r)
		}
	}
	byPair := func(a, b Row) int { return a.Pair - b.Pair }
	slices.SortStableFunc(treated, byPair)
	slices.SortStableFunc(control, byPair)
	return treated, control
}
