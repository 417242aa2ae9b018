package effect

import (
	"fmt"
	"math"

	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/match"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PairedResult is the outcome of a paired difference test.
type PairedResult struct {
	Pairs int `json:"pairs"`
	// MeanDiff is mean(treated outcome - control outcome) over the pairs.
	MeanDiff float64 `json:"mean_diff"`
	// StdErr is sd(diff)/sqrt(n).
	StdErr    float64 `json:"std_err"`
	Statistic float64 `json:"statistic"`
	DF        int     `json:"df"`
	// PValue is two-sided. It is NaN when fewer than two pairs exist.
	PValue float64 `json:"p_value"`
}

// Unadjusted returns mean(outcome | treated) - mean(outcome | control) over
// the whole table. It is NaN when either side is empty.
func Unadjusted(tbl *dataset.Table) float64 {
	treated, control := tbl.Outcomes()
	if len(treated) == 0 || len(control) == 0 {
		return math.NaN()
	}
	return stat.Mean(treated, nil) - stat.Mean(control, nil)
}

// Paired tests the matched outcome differences against zero.
//
// It panics when the treated and control members do not pair up one to one,
// since a well-formed match.Result can never produce that.
func Paired(ds match.MatchedDataset) PairedResult {
	treated, control := ds.Split()
	if len(treated) != len(control) {
		panic(fmt.Sprintf("effect: matched dataset has %d treated and %d control rows", len(treated), len(control)))
	}

	n := len(treated)
	diff := make([]float64, n)
	for i := range treated {
		if treated[i].Pair != control[i].Pair {
			panic(fmt.Sprintf("effect: row %d pairs %d with %d", i, treated[i].Pair, control[i].Pair))
		}
		diff[i] = treated[i].Outcome - control[i].Outcome
	}
	return PairedDiff(diff)
}

// PairedDiff runs the paired t-test on precomputed differences.
func PairedDiff(diff []float64) PairedResult {
	n := len(diff)
	res := PairedResult{
		Pairs:     n,
		MeanDiff:  math.NaN(),
		StdErr:    math.NaN(),
		Statistic: math.NaN(),
		DF:        max(n-1, 0),
		PValue:    math.NaN(),
	}
	if n == 0 {
		return res
	}
	res.MeanDiff = stat.Mean(diff, nil)
	if n < 2 {
		return res
	}

	res.StdErr = stat.StdDev(diff, nil) / math.Sqrt(float64(n))
	if res.StdErr == 0 {
		if res.MeanDiff != 0 {
			res.Statistic = math.Copysign(math.Inf(1), res.MeanDiff)
			res.PValue = 0
		}
		return res
	}

	res.Statistic = res.MeanDiff / res.StdErr
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(res.DF)}
	// Survival is computed directly so tiny p-values do not cancel to 1-1.
	res.PValue = math.Min(1, 2*t.Survival(math.Abs(res.Statistic)))
	return res
}
