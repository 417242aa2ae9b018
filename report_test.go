package psmatch

import (
	"math"
	"strings"
	"testing"

	"github.com/hupe1980/psmatch/codec"
	"github.com/stretchr/testify/assert"
)

func TestReport_WriteText(t *testing.T) {
	r := &Report{
		Unadjusted: 10.07123,
		Methods: []MethodReport{
			{
				Method: MethodRaw, Caliper: 0.2, Index: "sorted", Pairs: 4900, Unmatched: 12,
				MeanDiff: 9.98766, Statistic: 101.25, PValue: 0,
				Balance: []BalanceRow{{Confounder: 0, Before: 0.0123, After: 0.0045}},
			},
			{
				Method: MethodLogit, Caliper: 0.2, Index: "sorted", Pairs: 1,
				MeanDiff: 3, Statistic: codec.Float(math.NaN()), PValue: codec.Float(math.NaN()),
				Balance: []BalanceRow{{Confounder: 0, Before: 0.0123, After: codec.Float(math.NaN())}},
			},
		},
	}

	out := r.String()
	assert.True(t, strings.HasPrefix(out, "Unadjusted difference: 10.0712\n"))
	assert.Contains(t, out, "Raw score matching (caliper 0.2, sorted index):")
	assert.Contains(t, out, "matched pairs:   4900 (12 treated unmatched)")
	assert.Contains(t, out, "mean difference: 9.9877")
	assert.Contains(t, out, "p-value:         0\n")
	assert.Contains(t, out, "Logit score matching")
	assert.Contains(t, out, "p-value:         NaN\n")
	assert.Contains(t, out, "Standardized mean differences:")
	assert.Contains(t, out, "x0")
}

func TestReport_PValueSignificantDigits(t *testing.T) {
	r := &Report{Methods: []MethodReport{{Method: MethodRaw, PValue: 0.000123456}}}
	assert.Contains(t, r.String(), "p-value:         0.0001235\n")
}

func TestReport_Method(t *testing.T) {
	r := &Report{Methods: []MethodReport{{Method: MethodLogit, Pairs: 3}}}

	m, ok := r.Method(MethodLogit)
	assert.True(t, ok)
	assert.Equal(t, 3, m.Pairs)

	_, ok = r.Method(MethodRaw)
	assert.False(t, ok)
}
