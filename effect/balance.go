package effect

import (
	"math"

	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/match"
	"gonum.org/v1/gonum/stat"
)

// Balance is the standardized mean difference of one confounder.
type Balance struct {
	Confounder int     `json:"confounder"`
	Before     float64 `json:"smd_before"`
	After      float64 `json:"smd_after"`
}

// SMD returns (mean_t - mean_c) / sqrt((var_t + var_c) / 2). It is NaN when a
// side has fewer than two values, and 0 when both sides are constant and equal.
func SMD(treated, control []float64) float64 {
	if len(treated) < 2 || len(control) < 2 {
		return math.NaN()
	}
	mt, vt := stat.MeanVariance(treated, nil)
	mc, vc := stat.MeanVariance(control, nil)
	pooled := math.Sqrt((vt + vc) / 2)
	if pooled == 0 {
		if mt == mc {
			return 0
		}
		return math.Copysign(math.Inf(1), mt-mc)
	}
	return (mt - mc) / pooled
}

// BalanceTable computes the SMD of every confounder over the full table and
// over the matched rows.
func BalanceTable(tbl *dataset.Table, ds match.MatchedDataset) []Balance {
	dim := tbl.Dim()
	out := make([]Balance, dim)

	var allT, allC []dataset.Sample
	for _, s := range tbl.Samples() {
		if s.Treated {
			allT = append(allT, s)
		} else {
			allC = append(allC, s)
		}
	}
	mt, mc := ds.Split()

	for j := 0; j < dim; j++ {
		out[j] = Balance{
			Confounder: j,
			Before:     SMD(column(allT, j), column(allC, j)),
			After:      SMD(rowColumn(mt, j), rowColumn(mc, j)),
		}
	}
	return out
}

func column(samples []dataset.Sample, j int) []float64 {
	col := make([]float64, len(samples))
	for i := range samples {
		col[i] = samples[i].Confounders[j]
	}
	return col
}

func rowColumn(rows []match.Row, j int) []float64 {
	col := make([]float64, len(rows))
	for i := range rows {
		col[i] = rows[i].Confounders[j]
	}
	return col
}
