package timer

import (
	"sort"
	"sync"
	"time"
)

// Compile-time interface check.
var _ Scheduler = (*Manual)(nil)

// Manual is a virtual clock. Time only moves when Advance is called, and due
// callbacks run synchronously on the caller's goroutine in (due time,
// registration order) order. Used by tests and by the sequence simulator.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualEntry
}

type manualEntry struct {
	m         *Manual
	at        time.Time
	seq       uint64
	period    time.Duration // 0 for one-shot
	f         func()
	cancelled bool
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers f to run once d after the current virtual time.
func (m *Manual) AfterFunc(d time.Duration, f func()) Handle {
	return m.add(d, 0, f)
}

// Every registers f to run every d, first at now+d.
func (m *Manual) Every(d time.Duration, f func()) Handle {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, f)
}

func (m *Manual) add(d, period time.Duration, f func()) *manualEntry {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &manualEntry{m: m, at: m.now.Add(d), seq: m.seq, period: period, f: f}
	m.pending = append(m.pending, e)
	return e
}

// Pending returns the number of callbacks still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, firing every callback that falls
// due on the way. Callbacks scheduled by other callbacks fire too if they
// fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		e := m.nextDueLocked(target)
		if e == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = e.at
		if e.period > 0 {
			e.at = e.at.Add(e.period)
		} else {
			m.removeLocked(e)
		}
		f := e.f
		m.mu.Unlock()

		f()
	}
}

// nextDueLocked returns the earliest entry due at or before target.
// Must be called with m.mu held.
func (m *Manual) nextDueLocked(target time.Time) *manualEntry {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.seq < b.seq
	})
	if first := m.pending[0]; !first.at.After(target) {
		return first
	}
	return nil
}

// removeLocked drops e from the pending list. Must be called with m.mu held.
func (m *Manual) removeLocked(e *manualEntry) {
	for i, p := range m.pending {
		if p == e {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

func (e *manualEntry) Cancel() bool {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()

	if e.cancelled {
		return false
	}
	e.cancelled = true
	for _, p := range e.m.pending {
		if p == e {
			e.m.removeLocked(e)
			return true
		}
	}
	return false
}
