package propensity

type options struct {
	c       float64
	maxIter int
	tol     float64
}

func defaultOptions() options {
	return options{
		c:       1.0,
		maxIter: 100,
		tol:     1e-6,
	}
}

// Option configures Fit.
type Option func(*options)

// WithC sets the inverse L2 regularisation strength. Smaller values mean
// stronger regularisation. Non-positive values are ignored.
func WithC(c float64) Option {
	return func(o *options) {
		if c > 0 {
			o.c = c
		}
	}
}

// WithMaxIter sets the Newton iteration budget. Non-positive values are ignored.
func WithMaxIter(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIter = n
		}
	}
}

// WithTolerance sets the convergence threshold on the max-abs Newton step.
// Non-positive values are ignored.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tol = tol
		}
	}
}
