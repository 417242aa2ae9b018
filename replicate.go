package psmatch

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/psmatch/resource"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Replication holds one report per seed, in seed order.
type Replication struct {
	TrueEffect float64   `json:"true_effect"`
	Reports    []*Report `json:"reports"`
}

// MethodSummary aggregates the estimates of one method across replications.
type MethodSummary struct {
	Method Method
	// Runs counts replications with a defined estimate.
	Runs     int
	Mean     float64
	StdDev   float64
	Bias     float64
	AvgPairs float64
}

// Replicate runs cfg once per seed. Studies run concurrently, at most
// `workers` at a time unless a resource controller is supplied with
// WithResourceController. The first failing study cancels the rest.
func Replicate(ctx context.Context, cfg Config, seeds []int64, workers int, optFns ...Option) (*Replication, error) {
	if len(seeds) == 0 {
		return nil, &ConfigError{Field: "seeds", Reason: "at least one seed is required"}
	}

	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	rc := o.resources
	if rc == nil {
		rc = resource.NewController(resource.Config{MaxWorkers: int64(max(workers, 1))})
	}

	studies := make([]*Study, len(seeds))
	for i, seed := range seeds {
		c := cfg.Clone()
		c.Seed = seed
		s, err := New(c, optFns...)
		if err != nil {
			return nil, err
		}
		studies[i] = s
	}

	rep := &Replication{TrueEffect: cfg.EffectSize, Reports: make([]*Report, len(seeds))}
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range studies {
		if err := rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()
			r, err := s.Run(gctx)
			if err != nil {
				return fmt.Errorf("seed %d: %w", s.cfg.Seed, err)
			}
			rep.Reports[i] = r
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	failed := 0
	for _, r := range rep.Reports {
		if r == nil {
			failed++
		}
	}
	o.logger.LogReplicate(ctx, len(seeds), failed)

	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Summary aggregates each method's mean difference across all reports.
func (r *Replication) Summary() []MethodSummary {
	out := make([]MethodSummary, 0, len(Methods))
	for _, m := range Methods {
		var est, pairs []float64
		for _, rep := range r.Reports {
			mr, ok := rep.Method(m)
			if !ok || math.IsNaN(float64(mr.MeanDiff)) {
				continue
			}
			est = append(est, float64(mr.MeanDiff))
			pairs = append(pairs, float64(mr.Pairs))
		}
		s := MethodSummary{Method: m, Runs: len(est), Mean: math.NaN(), StdDev: math.NaN(), Bias: math.NaN(), AvgPairs: math.NaN()}
		if len(est) > 0 {
			s.Mean = stat.Mean(est, nil)
			s.Bias = s.Mean - r.TrueEffect
			s.AvgPairs = stat.Mean(pairs, nil)
		}
		if len(est) > 1 {
			s.StdDev = stat.StdDev(est, nil)
		}
		out = append(out, s)
	}
	return out
}

// WriteText writes one line per seed followed by the per-method summary.
func (r *Replication) WriteText(w io.Writer) error {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "seed\tunadjusted\t")
	for _, m := range Methods {
		fmt.Fprintf(tw, "%s pairs\t%s diff\t", m, m)
	}
	fmt.Fprintln(tw)
	for _, rep := range r.Reports {
		fmt.Fprintf(tw, "%d\t%.4f\t", rep.Seed, float64(rep.Unadjusted))
		for _, m := range Methods {
			mr, ok := rep.Method(m)
			if !ok {
				fmt.Fprint(tw, "-\t-\t")
				continue
			}
			fmt.Fprintf(tw, "%d\t%.4f\t", mr.Pairs, float64(mr.MeanDiff))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nTrue effect: %.4f\n", r.TrueEffect)
	for _, s := range r.Summary() {
		fmt.Fprintf(&b, "%s: mean %.4f, sd %.4f, bias %.4f over %d runs (avg %.1f pairs)\n",
			titleCase(string(s.Method)), s.Mean, s.StdDev, s.Bias, s.Runs, s.AvgPairs)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
