// Package timer provides the clock's scheduling primitives: cancellable
// one-shot and repeating callbacks, a deterministic manual clock for tests
// and simulations, and the background supervisor that resynchronizes the
// dial from the wall clock.
package timer

import (
	"sync"
	"time"
)

// Handle refers to a scheduled callback.
type Handle interface {
	// Cancel prevents any further invocation of the callback. It is safe to
	// call more than once and reports whether a pending fire was prevented.
	Cancel() bool
}

// Scheduler runs callbacks after a delay. Every activity that fires "in N
// milliseconds" goes through a Scheduler so it can be cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
	Every(d time.Duration, f func()) Handle
	Now() time.Time
}

// Compile-time interface check.
var _ Scheduler = (*Wall)(nil)

// Wall schedules against the real clock. Callbacks run on their own goroutines.
type Wall struct{}

// NewWall returns the real-time scheduler.
func NewWall() *Wall { return &Wall{} }

// Now returns the current wall-clock time.
func (w *Wall) Now() time.Time { return time.Now() }

// AfterFunc runs f once after d.
func (w *Wall) AfterFunc(d time.Duration, f func()) Handle {
	h := &wallHandle{}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			return
		}
		h.fired = true
		h.mu.Unlock()
		f()
	})
	return h
}

// Every runs f every d until cancelled. The first call happens after d.
func (w *Wall) Every(d time.Duration, f func()) Handle {
	h := &wallHandle{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				h.mu.Lock()
				cancelled := h.cancelled
				h.mu.Unlock()
				if cancelled {
					return
				}
				f()
			}
		}
	}()
	return h
}

type wallHandle struct {
	mu        sync.Mutex
	timer     *time.Timer
	done      chan struct{}
	cancelled bool
	fired     bool
}

func (h *wallHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return false
	}
	h.cancelled = true

	if h.done != nil {
		close(h.done)
		return true
	}
	h.timer.Stop()
	return !h.fired
}
