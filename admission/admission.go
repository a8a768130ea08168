// Package admission implements the request admission gate: a bounded
// waiting count plus a concurrency semaphore, shedding load with "queue
// full" above the configured watermark.
package admission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrQueueFull is returned by Acquire when the waiting watermark is already
// at max_queue_size. No slot is consumed.
var ErrQueueFull = errors.New("queue full")

// GaugeSink receives admission state updates: queue size on every
// waiting-count change, concurrent requests on every running-count change.
// Implemented by package metrics.
type GaugeSink interface {
	SetQueueSize(n int)
	SetConcurrentRequests(n int)
}

type noopSink struct{}

func (noopSink) SetQueueSize(int)         {}
func (noopSink) SetConcurrentRequests(int) {}

// Controller is the bounded admission gate.
type Controller struct {
	maxQueueSize int
	sem          chan struct{}
	waiting      int64
	running      int64
	sink         GaugeSink
}

// New creates a Controller with the given concurrency ceiling and waiting
// watermark. sink may be nil to disable gauge reporting (tests).
func New(maxConcurrentRequests, maxQueueSize int, sink GaugeSink) *Controller {
	if sink == nil {
		sink = noopSink{}
	}
	return &Controller{
		maxQueueSize: maxQueueSize,
		sem:          make(chan struct{}, maxConcurrentRequests),
		sink:         sink,
	}
}

// Slot is an admission slot held for the lifetime of one request. Release
// is idempotent: whichever code path first calls it (success, static-filter
// rejection, timeout, or a recovered panic) is the only one that takes
// effect. There is exactly one releasable value per admitted request rather
// than free-standing counter arithmetic at each call site, so no
// combination of exit paths can double-decrement the accounting.
type Slot struct {
	c    *Controller
	once sync.Once
}

// Acquire admits a request: reject immediately with ErrQueueFull if waiting
// is already at the watermark (no slot consumed), otherwise increments
// waiting, blocks for the execution semaphore (respecting ctx), then moves
// the accounting from waiting to running. Returns ctx.Err() if ctx is
// cancelled while queued.
func (c *Controller) Acquire(ctx context.Context) (*Slot, error) {
	for {
		w := atomic.LoadInt64(&c.waiting)
		if w >= int64(c.maxQueueSize) {
			return nil, ErrQueueFull
		}
		if atomic.CompareAndSwapInt64(&c.waiting, w, w+1) {
			break
		}
	}
	c.sink.SetQueueSize(int(atomic.LoadInt64(&c.waiting)))

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		atomic.AddInt64(&c.waiting, -1)
		c.sink.SetQueueSize(int(atomic.LoadInt64(&c.waiting)))
		return nil, ctx.Err()
	}

	atomic.AddInt64(&c.waiting, -1)
	c.sink.SetQueueSize(int(atomic.LoadInt64(&c.waiting)))
	running := atomic.AddInt64(&c.running, 1)
	c.sink.SetConcurrentRequests(int(running))

	return &Slot{c: c}, nil
}

// Release returns the slot's resources: running is decremented and the
// execution semaphore is released. Safe to call multiple times; only the
// first call has effect.
func (s *Slot) Release() {
	s.once.Do(func() {
		running := atomic.AddInt64(&s.c.running, -1)
		s.c.sink.SetConcurrentRequests(int(running))
		<-s.c.sem
	})
}

// Waiting returns the current waiting count (for tests/diagnostics).
func (c *Controller) Waiting() int { return int(atomic.LoadInt64(&c.waiting)) }

// Running returns the current running count (for tests/diagnostics).
func (c *Controller) Running() int { return int(atomic.LoadInt64(&c.running)) }
