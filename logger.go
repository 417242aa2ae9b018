package psmatch

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with psmatch-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSeed adds the study seed to the logger.
func (l *Logger) WithSeed(seed int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// WithRunID adds a run id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithMethod adds the matching method to the logger.
func (l *Logger) WithMethod(m Method) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", string(m)),
	}
}

// LogGenerate logs the data generation step.
func (l *Logger) LogGenerate(ctx context.Context, n, treated int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "generate failed",
			"n", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "generate completed",
			"n", n,
			"treated", treated,
			"control", n-treated,
		)
	}
}

// LogFit logs a propensity model fit.
func (l *Logger) LogFit(ctx context.Context, iterations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "propensity fit failed",
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "propensity fit completed",
			"iterations", iterations,
		)
	}
}

// LogMatch logs one matching pass.
func (l *Logger) LogMatch(ctx context.Context, method Method, matched, unmatched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "matching failed",
			"method", string(method),
			"error", err,
		)
		return
	}
	if matched == 0 {
		l.WarnContext(ctx, "matching produced no pairs",
			"method", string(method),
			"unmatched", unmatched,
		)
		return
	}
	l.DebugContext(ctx, "matching completed",
		"method", string(method),
		"matched", matched,
		"unmatched", unmatched,
	)
}

// LogReplicate logs a replication batch.
func (l *Logger) LogReplicate(ctx context.Context, runs, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "replication completed with failures",
			"total", runs,
			"failed", failed,
			"success", runs-failed,
		)
	} else {
		l.InfoContext(ctx, "replication completed",
			"runs", runs,
		)
	}
}

// LogExport logs a report export.
func (l *Logger) LogExport(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "report exported",
			"name", name,
			"bytes", size,
		)
	}
}
