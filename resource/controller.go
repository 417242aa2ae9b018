// Package resource bounds the concurrency and IO throughput of psmatch runs.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of studies running at once.
	// If 0, defaults to 1.
	MaxWorkers int64

	// IOLimitBytesPerSec is the maximum export throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages worker slots and export bandwidth.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted
	active  atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// MaxWorkers returns the configured worker limit.
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxWorkers
}

// AcquireWorker reserves a worker slot, blocking until one is free or ctx is
// canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	c.active.Add(1)
	return nil
}

// TryAcquireWorker reserves a worker slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	if !c.workers.TryAcquire(1) {
		return false
	}
	c.active.Add(1)
	return true
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.active.Add(-1)
	c.workers.Release(1)
}

// ActiveWorkers returns the number of slots currently held.
func (c *Controller) ActiveWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.active.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the limiter burst are split into burst-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
