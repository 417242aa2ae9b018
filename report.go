package psmatch

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/psmatch/codec"
	"github.com/hupe1980/psmatch/match"
)

// Report is the outcome of one study. Statistics that are undefined (for
// example the p-value of fewer than two pairs) are NaN and survive a JSON
// round trip as the string "NaN".
type Report struct {
	RunID      string         `json:"run_id,omitempty"`
	Seed       int64          `json:"seed"`
	N          int            `json:"n"`
	Treated    int            `json:"treated"`
	Control    int            `json:"control"`
	TrueEffect float64        `json:"true_effect"`
	Unadjusted codec.Float    `json:"unadjusted"`
	Model      ModelReport    `json:"model"`
	Methods    []MethodReport `json:"methods"`
}

// ModelReport holds the fitted propensity model.
type ModelReport struct {
	Intercept  float64   `json:"intercept"`
	Coef       []float64 `json:"coef"`
	Iterations int       `json:"iterations"`
}

// MethodReport holds the matching and effect estimate of one method.
type MethodReport struct {
	Method       Method       `json:"method"`
	Caliper      float64      `json:"caliper"`
	Index        string       `json:"index"`
	Pairs        int          `json:"pairs"`
	Unmatched    int          `json:"unmatched"`
	MeanDistance codec.Float  `json:"mean_distance"`
	MeanDiff     codec.Float  `json:"mean_diff"`
	StdErr       codec.Float  `json:"std_err"`
	Statistic    codec.Float  `json:"statistic"`
	DF           int          `json:"df"`
	PValue       codec.Float  `json:"p_value"`
	Balance      []BalanceRow `json:"balance"`

	result *match.Result
}

// Result returns the matching behind this estimate. It is nil for reports
// decoded from an export.
func (m *MethodReport) Result() *match.Result { return m.result }

// BalanceRow is the standardized mean difference of one confounder before
// and after matching.
type BalanceRow struct {
	Confounder int         `json:"confounder"`
	Before     codec.Float `json:"before"`
	After      codec.Float `json:"after"`
}

func toFloat(v float64) codec.Float { return codec.Float(v) }

// Method returns the report of method m.
func (r *Report) Method(m Method) (*MethodReport, bool) {
	for i := range r.Methods {
		if r.Methods[i].Method == m {
			return &r.Methods[i], true
		}
	}
	return nil, false
}

// WriteText writes the human-readable summary.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Unadjusted difference: %.4f\n", float64(r.Unadjusted))
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "\n%s score matching (caliper %g, %s index):\n", titleCase(string(m.Method)), m.Caliper, m.Index)
		fmt.Fprintf(&b, "  matched pairs:   %d (%d treated unmatched)\n", m.Pairs, m.Unmatched)
		fmt.Fprintf(&b, "  mean difference: %.4f\n", float64(m.MeanDiff))
		fmt.Fprintf(&b, "  test statistic:  %.4f\n", float64(m.Statistic))
		fmt.Fprintf(&b, "  p-value:         %.4g\n", float64(m.PValue))
	}

	if len(r.Methods) > 0 && len(r.Methods[0].Balance) > 0 {
		b.WriteString("\nStandardized mean differences:\n")
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "confounder\tbefore\t")
		for _, m := range r.Methods {
			fmt.Fprintf(tw, "%s\t", m.Method)
		}
		fmt.Fprintln(tw)
		for j, row := range r.Methods[0].Balance {
			fmt.Fprintf(tw, "x%d\t%.4f\t", row.Confounder, float64(row.Before))
			for _, m := range r.Methods {
				fmt.Fprintf(tw, "%.4f\t", float64(m.Balance[j].After))
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the WriteText output.
func (r *Report) String() string {
	var b strings.Builder
	_ = r.WriteText(&b)
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
