package speech

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

type sourceState int

const (
	sourceIdle sourceState = iota
	sourcePlaying
	sourceStopped
)

// SourceOption configures a ToneSource.
type SourceOption func(*ToneSource)

// WithReleaseHook registers fn to run once after the source releases its
// voice, whether it was stopped or ran out. fn is called without any
// source lock held.
func WithReleaseHook(fn func()) SourceOption {
	return func(s *ToneSource) {
		s.onRelease = fn
	}
}

// ToneSource produces one tone on the shared device and owns its voice for
// its lifetime. A source is single-use: once stopped it never sounds again.
type ToneSource struct {
	dev       Device
	sched     timer.Scheduler
	log       *logger.Logger
	tone      domain.Tone
	onRelease func()

	mu     sync.Mutex
	state  sourceState
	voice  Voice
	expiry timer.Handle
}

// NewToneSource creates an idle source for t.
func NewToneSource(dev Device, sched timer.Scheduler, t domain.Tone, log *logger.Logger, opts ...SourceOption) *ToneSource {
	s := &ToneSource{
		dev:   dev,
		sched: sched,
		log:   log,
		tone:  sanitizeTone(t, log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tone returns the tone this source realizes.
func (s *ToneSource) Tone() domain.Tone { return s.tone }

// Start begins sounding. A finite tone stops itself Duration after Start.
// Starting a stopped source does nothing and returns ErrSourceStopped;
// starting a live source does nothing.
func (s *ToneSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case sourceStopped:
		s.log.Warn("tone source: start after stop ignored (%s)", s.tone)
		return domain.ErrSourceStopped
	case sourcePlaying:
		return nil
	}

	voice, err := s.dev.Start(s.tone)
	if err != nil {
		// Nothing was acquired, so there is nothing to release.
		s.state = sourceStopped
		return fmt.Errorf("start %s: %w", s.tone, err)
	}

	s.state = sourcePlaying
	s.voice = voice
	if s.tone.Duration > 0 {
		s.expiry = s.sched.AfterFunc(s.tone.Duration, s.Stop)
	}
	return nil
}

// Stop silences the source and releases its voice. Safe to call any number
// of times, before Start, or after the tone ran out.
func (s *ToneSource) Stop() {
	s.mu.Lock()
	if s.state == sourceStopped {
		s.mu.Unlock()
		return
	}
	s.state = sourceStopped
	voice, expiry, hook := s.voice, s.expiry, s.onRelease
	s.voice, s.expiry = nil, nil
	s.mu.Unlock()

	if expiry != nil {
		expiry.Cancel()
	}
	if voice == nil {
		return
	}
	voice.Stop()
	if hook != nil {
		hook()
	}
}

// Live reports whether the source currently holds a voice.
func (s *ToneSource) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sourcePlaying
}
