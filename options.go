package psmatch

import (
	"log/slog"

	"github.com/hupe1980/psmatch/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures Study behavior.
type Option func(*options)

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics sink. A nil collector disables metrics.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController bounds how many studies Replicate runs at once.
//
// If unset, Replicate uses a controller sized by its workers argument.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}
