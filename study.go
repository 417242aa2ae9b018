package psmatch

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/psmatch/dataset"
	"github.com/hupe1980/psmatch/effect"
	"github.com/hupe1980/psmatch/match"
	"github.com/hupe1980/psmatch/propensity"
	"golang.org/x/sync/errgroup"
)

// Method names the score space a matching pass runs in.
type Method string

const (
	// MethodRaw matches on the propensity itself.
	MethodRaw Method = "raw"
	// MethodLogit matches on log(p/(1-p)).
	MethodLogit Method = "logit"
)

// Methods lists the matching methods in report order.
var Methods = []Method{MethodRaw, MethodLogit}

// Study runs the generate, fit, match and estimate pipeline for one Config.
// A Study is immutable and safe for concurrent use.
type Study struct {
	cfg     Config
	index   match.IndexKind
	matcher *match.Matcher
	opts    options
}

// New validates cfg and returns a Study. Configuration problems are reported
// as *ConfigError before any computation.
func New(cfg Config, optFns ...Option) (*Study, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kind, err := match.ParseIndexKind(cfg.Index)
	if err != nil {
		return nil, translateError(err)
	}
	m, err := match.New(cfg.Caliper, match.WithIndex(kind))
	if err != nil {
		return nil, translateError(err)
	}

	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	return &Study{cfg: cfg, index: kind, matcher: m, opts: o}, nil
}

// Config returns a copy of the study configuration.
func (s *Study) Config() Config { return s.cfg.Clone() }

// Run executes the study. The raw and logit matching passes run concurrently;
// both read the same immutable table and scores.
func (s *Study) Run(ctx context.Context) (*Report, error) {
	log := s.opts.logger.WithSeed(s.cfg.Seed)
	mc := s.opts.metricsCollector

	start := time.Now()
	tbl, err := dataset.Generate(s.cfg.params())
	treated, control := 0, 0
	if err == nil {
		treated, control = tbl.Counts()
	}
	mc.RecordGenerate(s.cfg.N, time.Since(start), err)
	log.LogGenerate(ctx, s.cfg.N, treated, err)
	if err != nil {
		return nil, translateError(err)
	}

	start = time.Now()
	x := tbl.Features()
	model, err := propensity.Fit(ctx, x, tbl.Labels(), s.cfg.fitOptions()...)
	iterations := 0
	if model != nil {
		iterations = model.Iterations
	}
	mc.RecordFit(iterations, time.Since(start), err)
	log.LogFit(ctx, iterations, err)
	if err != nil {
		return nil, translateError(err)
	}

	raw, logit, err := propensity.Scores(model, x, s.cfg.ClipEpsilon)
	if err != nil {
		return nil, translateError(err)
	}
	scores := map[Method][]float64{MethodRaw: raw, MethodLogit: logit}

	report := &Report{
		Seed:       s.cfg.Seed,
		N:          s.cfg.N,
		Treated:    treated,
		Control:    control,
		TrueEffect: s.cfg.EffectSize,
		Unadjusted: toFloat(effect.Unadjusted(tbl)),
		Model: ModelReport{
			Intercept:  model.Intercept,
			Coef:       model.Coef,
			Iterations: model.Iterations,
		},
		Methods: make([]MethodReport, len(Methods)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, method := range Methods {
		g.Go(func() error {
			mr, err := s.runMethod(gctx, tbl, method, scores[method])
			if err != nil {
				return fmt.Errorf("%s matching: %w", method, err)
			}
			report.Methods[i] = *mr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}

	return report, nil
}

func (s *Study) runMethod(ctx context.Context, tbl *dataset.Table, method Method, scores []float64) (*MethodReport, error) {
	log := s.opts.logger.WithSeed(s.cfg.Seed).WithMethod(method)

	start := time.Now()
	res, err := s.matcher.Match(ctx, tbl.Partition(scores))
	matched, unmatched := res.Len(), 0
	if res != nil {
		unmatched = len(res.Unmatched)
	}
	s.opts.metricsCollector.RecordMatch(string(method), matched, unmatched, time.Since(start), err)
	log.LogMatch(ctx, method, matched, unmatched, err)
	if err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		panic(fmt.Sprintf("psmatch: %s matching broke the 1:1 contract: %v", method, err))
	}

	ds := res.Dataset(tbl)
	paired := effect.Paired(ds)
	balance := effect.BalanceTable(tbl, ds)

	mr := &MethodReport{
		Method:       method,
		Caliper:      s.cfg.Caliper,
		Index:        s.index.String(),
		Pairs:        paired.Pairs,
		Unmatched:    unmatched,
		MeanDistance: toFloat(res.MeanDistance()),
		MeanDiff:     toFloat(paired.MeanDiff),
		StdErr:       toFloat(paired.StdErr),
		Statistic:    toFloat(paired.Statistic),
		DF:           paired.DF,
		PValue:       toFloat(paired.PValue),
		Balance:      make([]BalanceRow, len(balance)),
		result:       res,
	}
	for i, b := range balance {
		mr.Balance[i] = BalanceRow{Confounder: b.Confounder, Before: toFloat(b.Before), After: toFloat(b.After)}
	}
	return mr, nil
}

// Run is a convenience wrapper around New and Study.Run.
func Run(ctx context.Context, cfg Config, optFns ...Option) (*Report, error) {
	s, err := New(cfg, optFns...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
