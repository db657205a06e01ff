// Package storage keeps the record of playback sessions.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*SessionRegistry)(nil)

// DefaultHistoryLimit bounds how many ended sessions are remembered.
const DefaultHistoryLimit = 64

// Option configures a SessionRegistry.
type Option func(*SessionRegistry)

// WithNow sets the time source for session timestamps.
func WithNow(now func() time.Time) Option {
	return func(r *SessionRegistry) {
		r.now = now
	}
}

// WithHistoryLimit sets how many ended sessions are kept. Zero or less
// keeps the default.
func WithHistoryLimit(n int) Option {
	return func(r *SessionRegistry) {
		if n > 0 {
			r.limit = n
		}
	}
}

// SessionRegistry is an in-memory session store that allows one active
// session per playback kind. Safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.PlaybackSession
	active   map[domain.PlaybackKind]string
	ended    []string
	limit    int
	now      func() time.Time
	log      *logger.Logger
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(log *logger.Logger, opts ...Option) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[string]*domain.PlaybackSession),
		active:   make(map[domain.PlaybackKind]string),
		limit:    DefaultHistoryLimit,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin opens a session of the given kind. It fails with ErrAlreadyExists
// while another session of that kind is active.
func (r *SessionRegistry) Begin(ctx context.Context, kind domain.PlaybackKind, text string) (*domain.PlaybackSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.active[kind]; ok {
		return nil, fmt.Errorf("%s session %s: %w", kind, id, domain.ErrAlreadyExists)
	}

	sess := &domain.PlaybackSession{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		StartedAt: r.now(),
		Active:    true,
	}
	r.sessions[sess.ID] = sess
	r.active[kind] = sess.ID
	r.log.Debug("session %s begun (kind=%s, text=%q)", sess.ID, kind, text)

	cp := *sess
	return &cp, nil
}

// End closes an active session. Ending a session twice is harmless; an
// unknown ID returns ErrNotFound.
func (r *SessionRegistry) End(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !sess.Active {
		return nil
	}
	sess.Active = false
	sess.EndedAt = r.now()
	delete(r.active, sess.Kind)

	r.ended = append(r.ended, id)
	for len(r.ended) > r.limit {
		delete(r.sessions, r.ended[0])
		r.ended = r.ended[1:]
	}
	r.log.Debug("session %s ended after %s", id, sess.EndedAt.Sub(sess.StartedAt))
	return nil
}

// Active returns the live session of a kind, or ErrNotFound.
func (r *SessionRegistry) Active(ctx context.Context, kind domain.PlaybackKind) (*domain.PlaybackSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[kind]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.sessions[id]
	return &cp, nil
}

// History returns every remembered session, oldest first.
func (r *SessionRegistry) History(ctx context.Context) ([]*domain.PlaybackSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.PlaybackSession, 0, len(r.sessions))
	for _, sess := range r.sessions {
		cp := *sess
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	r.log.Debug("listing session history, count=%d", len(out))
	return out, nil
}
