package psmatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    matchCounter   *prometheus.CounterVec
//	    fitHistogram   prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordMatch(method string, matched, unmatched int, duration time.Duration, err error) {
//	    p.matchCounter.WithLabelValues(method).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordGenerate is called after the synthetic table is drawn.
	RecordGenerate(n int, duration time.Duration, err error)

	// RecordFit is called after each propensity fit.
	// iterations is the number of Newton steps taken.
	RecordFit(iterations int, duration time.Duration, err error)

	// RecordMatch is called after each matching pass.
	RecordMatch(method string, matched, unmatched int, duration time.Duration, err error)

	// RecordExport is called after each export. size is the stored byte count.
	RecordExport(size int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGenerate(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordFit(int, time.Duration, error)                {}
func (NoopMetricsCollector) RecordMatch(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordExport(int, time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GenerateCount    atomic.Int64
	GenerateErrors   atomic.Int64
	GeneratedSamples atomic.Int64
	FitCount         atomic.Int64
	FitErrors        atomic.Int64
	FitIterations    atomic.Int64
	FitTotalNanos    atomic.Int64
	MatchCount       atomic.Int64
	MatchErrors      atomic.Int64
	MatchedPairs     atomic.Int64
	UnmatchedTreated atomic.Int64
	MatchTotalNanos  atomic.Int64
	ExportCount      atomic.Int64
	ExportErrors     atomic.Int64
	ExportBytes      atomic.Int64
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(n int, _ time.Duration, err error) {
	b.GenerateCount.Add(1)
	if err != nil {
		b.GenerateErrors.Add(1)
		return
	}
	b.GeneratedSamples.Add(int64(n))
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitIterations.Add(int64(iterations))
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ string, matched, unmatched int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.MatchedPairs.Add(int64(matched))
	b.UnmatchedTreated.Add(int64(unmatched))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(size int, _ time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
		return
	}
	b.ExportBytes.Add(int64(size))
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	GenerateCount    int64
	GeneratedSamples int64
	FitCount         int64
	FitErrors        int64
	AvgFitIterations float64
	MatchCount       int64
	MatchErrors      int64
	MatchedPairs     int64
	UnmatchedTreated int64
	AvgMatchNanos    int64
	ExportCount      int64
	ExportErrors     int64
	ExportBytes      int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		GenerateCount:    b.GenerateCount.Load(),
		GeneratedSamples: b.GeneratedSamples.Load(),
		FitCount:         b.FitCount.Load(),
		FitErrors:        b.FitErrors.Load(),
		MatchCount:       b.MatchCount.Load(),
		MatchErrors:      b.MatchErrors.Load(),
		MatchedPairs:     b.MatchedPairs.Load(),
		UnmatchedTreated: b.UnmatchedTreated.Load(),
		ExportCount:      b.ExportCount.Load(),
		ExportErrors:     b.ExportErrors.Load(),
		ExportBytes:      b.ExportBytes.Load(),
	}
	if stats.FitCount > 0 {
		stats.AvgFitIterations = float64(b.FitIterations.Load()) / float64(stats.FitCount)
	}
	if stats.MatchCount > 0 {
		stats.AvgMatchNanos = b.MatchTotalNanos.Load() / stats.MatchCount
	}
	return stats
}
