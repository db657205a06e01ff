package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Syncer receives wall-clock readings. The clock controller implements it.
type Syncer interface {
	SyncTo(now time.Time)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor reads the wall clock.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithNow replaces the wall-clock source.
func WithNow(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithImmediateSync makes Start push one reading before the first tick.
func WithImmediateSync(enabled bool) Option {
	return func(s *Supervisor) {
		s.immediate = enabled
	}
}

// Supervisor runs in the background and pushes the wall-clock time into the
// controller once per tick. It is the clock's only external time source.
type Supervisor struct {
	target       Syncer
	log          *logger.Logger
	now          func() time.Time
	tickInterval time.Duration
	immediate    bool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a supervisor feeding target.
func New(target Syncer, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		target:       target,
		log:          log,
		now:          time.Now,
		tickInterval: 1 * time.Second,
		immediate:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("clock supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	if s.immediate {
		s.target.SyncTo(s.now())
	}

	go s.loop(childCtx, s.done)

	s.log.Info("clock supervisor started (tick=%s)", s.tickInterval)
}

// Stop shuts the loop down and waits for it to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("clock supervisor stopped")
}

// loop is the main tick loop.
func (s *Supervisor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			s.log.Debug("supervisor: tick %s", now.Format("15:04:05"))
			s.target.SyncTo(now)
		}
	}
}
