// Package engine implements the clock controller: the dial and alarm
// settings, and the state machine that decides when the clock speaks and
// when it rings.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/speech"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// Default holds and start-up settings.
const (
	DefaultAnnouncementHold = 3 * time.Second
	DefaultAlarmHold        = 5 * time.Second
)

var (
	defaultStartTime = domain.ClockTime{Hours: 10, Minutes: 30}
	defaultAlarmTime = domain.ClockTime{Hours: 7, Minutes: 0}
)

// Option configures the controller.
type Option func(*Controller)

// WithAnnouncementHold sets how long an announcement session lasts,
// regardless of how long its tones take.
func WithAnnouncementHold(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.announcementHold = d
		}
	}
}

// WithAlarmHold sets how long the alarm rings before it stops by itself.
func WithAlarmHold(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.alarmHold = d
		}
	}
}

// WithStartTime sets the initial dial position.
func WithStartTime(t domain.ClockTime) Option {
	return func(c *Controller) {
		if t.Validate() == nil {
			c.current = t
		}
	}
}

// WithAlarm sets the initial alarm time and whether it is armed.
func WithAlarm(t domain.ClockTime, armed bool) Option {
	return func(c *Controller) {
		if t.Validate() == nil {
			c.alarm.Time = t
		}
		c.alarm.Armed = armed
	}
}

// WithNotifier reports announcements and alarms to n.
func WithNotifier(n domain.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithStateListener calls fn with a fresh snapshot after every change,
// including changes made by the controller's own timers. fn runs without
// the controller lock held and may call back into the controller.
func WithStateListener(fn func(domain.ClockState)) Option {
	return func(c *Controller) {
		c.listener = fn
	}
}

// announcement is the live announcement session.
type announcement struct {
	sessionID string
	seq       *speech.Sequence
	hold      timer.Handle
	text      string
}

// ringing is the live alarm session.
type ringing struct {
	sessionID string
	hold      timer.Handle
	text      string
}

// event is a notification collected under the lock and delivered after it.
type event struct {
	urgent bool
	text   string
}

// Controller owns the clock state. Every exported method is safe for
// concurrent use; timer callbacks and the wall-clock supervisor call into
// it from their own goroutines.
type Controller struct {
	catalog   domain.AnnouncementCatalog
	store     domain.SessionStore
	sequencer *speech.Sequencer
	siren     *speech.AlarmGenerator
	sched     timer.Scheduler
	log       *logger.Logger
	notifier  domain.Notifier
	listener  func(domain.ClockState)

	announcementHold time.Duration
	alarmHold        time.Duration

	mu      sync.Mutex
	current domain.ClockTime
	alarm   domain.AlarmState
	ann     *announcement
	ring    *ringing
	display string
	closed  bool
}

// Compile-time interface check.
var _ timer.Syncer = (*Controller)(nil)

// New creates a controller with the given dependencies and options. The
// dial starts at 10:30 with a disarmed 7:00 alarm unless configured
// otherwise.
func New(
	catalog domain.AnnouncementCatalog,
	store domain.SessionStore,
	sequencer *speech.Sequencer,
	siren *speech.AlarmGenerator,
	sched timer.Scheduler,
	log *logger.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		catalog:          catalog,
		store:            store,
		sequencer:        sequencer,
		siren:            siren,
		sched:            sched,
		log:              log,
		announcementHold: DefaultAnnouncementHold,
		alarmHold:        DefaultAlarmHold,
		current:          defaultStartTime,
		alarm:            domain.AlarmState{Time: defaultAlarmTime},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestAnnouncement speaks the current time, rounded to the nearest
// quarter hour. It does nothing and returns false while either an
// announcement or the alarm is playing.
func (c *Controller) RequestAnnouncement() bool {
	c.mu.Lock()
	if c.closed || c.ann != nil || c.ring != nil {
		c.mu.Unlock()
		c.log.Debug("announcement request ignored, already playing")
		return false
	}

	// The hour is kept even when the minute rounds up to the next hour.
	text := c.catalog.Phrase(c.current.Hours, c.current.Minutes)

	a := &announcement{text: text}
	a.sessionID = c.beginSession(domain.PlaybackAnnouncement, text)
	c.log.Info("Playing audio: %s", text)
	a.seq, _ = c.sequencer.Play(text)
	a.hold = c.sched.AfterFunc(c.announcementHold, func() { c.endAnnouncement(a) })
	c.ann = a
	c.display = text

	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit([]event{{text: text}}, snap)
	return true
}

// StopAnnouncement ends a live announcement early.
func (c *Controller) StopAnnouncement() {
	c.mu.Lock()
	a := c.ann
	c.mu.Unlock()
	if a != nil {
		c.endAnnouncement(a)
	}
}

// StopAlarm silences a ringing alarm. The alarm stays armed and will not
// ring again until the clock leaves and comes back to the alarm time.
func (c *Controller) StopAlarm() {
	c.mu.Lock()
	r := c.ring
	c.mu.Unlock()
	if r != nil {
		c.endAlarm(r)
	}
}

// SetCurrentTime moves the dial. Out-of-range values are rejected with
// ErrInvalidTimeValue and leave the state unchanged.
func (c *Controller) SetCurrentTime(t domain.ClockTime) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set current time: %w", err)
	}
	c.mutate(func() { c.current = t })
	return nil
}

// AdjustCurrentTime applies knob presses to the dial.
func (c *Controller) AdjustCurrentTime(adjs ...domain.Adjustment) domain.ClockTime {
	var out domain.ClockTime
	c.mutate(func() {
		c.current = c.current.Apply(adjs...)
		out = c.current
	})
	return out
}

// SetAlarmTime sets the alarm. Out-of-range values are rejected with
// ErrInvalidTimeValue and leave the state unchanged.
func (c *Controller) SetAlarmTime(t domain.ClockTime) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set alarm time: %w", err)
	}
	c.mutate(func() { c.alarm.Time = t })
	return nil
}

// AdjustAlarmTime applies knob presses to the alarm setting.
func (c *Controller) AdjustAlarmTime(adjs ...domain.Adjustment) domain.ClockTime {
	var out domain.ClockTime
	c.mutate(func() {
		c.alarm.Time = c.alarm.Time.Apply(adjs...)
		out = c.alarm.Time
	})
	return out
}

// SetAlarmArmed arms or disarms the alarm. Disarming silences a ringing
// alarm.
func (c *Controller) SetAlarmArmed(armed bool) {
	c.mutate(func() { c.alarm.Armed = armed })
	if !armed {
		c.StopAlarm()
	}
}

// ToggleAlarm flips the armed flag and returns the new value.
func (c *Controller) ToggleAlarm() bool {
	c.mu.Lock()
	armed := !c.alarm.Armed
	c.mu.Unlock()

	c.SetAlarmArmed(armed)
	return armed
}

// SyncTo sets the dial from a wall-clock instant. Called once per tick.
func (c *Controller) SyncTo(t time.Time) {
	now := domain.FromWallClock(t)
	c.mutate(func() { c.current = now })
}

// Snapshot returns the observable state.
func (c *Controller) Snapshot() domain.ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// History returns the recorded playback sessions, oldest first.
func (c *Controller) History(ctx context.Context) ([]*domain.PlaybackSession, error) {
	return c.store.History(ctx)
}

// Close stops every sound and timer the controller owns. Later requests
// are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	a, r := c.ann, c.ring
	c.mu.Unlock()

	if a != nil {
		c.endAnnouncement(a)
	}
	if r != nil {
		c.endAlarm(r)
	}
	c.log.Debug("controller closed")
}

// mutate applies fn under the lock, then re-evaluates the alarm and
// delivers whatever that produced.
func (c *Controller) mutate(fn func()) {
	c.mu.Lock()
	fn()
	events := c.checkAlarmLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(events, snap)
}

// checkAlarmLocked starts the alarm on the rising edge of a match. The
// Triggered flag holds it off until the match breaks, so the alarm rings
// once per contiguous match even if the hold ends first. Must be called
// with c.mu held.
func (c *Controller) checkAlarmLocked() []event {
	if !c.alarm.Matches(c.current) {
		if c.alarm.Triggered {
			c.log.Debug("alarm re-armed, %s no longer matches %s", c.current, c.alarm.Time)
		}
		c.alarm.Triggered = false
		return nil
	}
	if c.closed || c.alarm.Triggered || c.ring != nil {
		return nil
	}

	c.alarm.Triggered = true
	text := c.siren.Play()

	r := &ringing{text: text}
	r.sessionID = c.beginSession(domain.PlaybackAlarm, text)
	r.hold = c.sched.AfterFunc(c.alarmHold, func() { c.endAlarm(r) })
	c.ring = r
	c.display = text
	c.log.Info("alarm ringing at %s", c.current)

	return []event{{urgent: true, text: text}}
}

// endAnnouncement tears down a, if it is still the live announcement.
func (c *Controller) endAnnouncement(a *announcement) {
	c.mu.Lock()
	if c.ann != a {
		c.mu.Unlock()
		return
	}
	c.ann = nil
	if c.ring != nil {
		c.display = c.ring.text
	} else {
		c.display = ""
	}
	c.endSession(a.sessionID)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	a.hold.Cancel()
	a.seq.Stop()
	c.log.Info("Stopping audio")
	c.emit(nil, snap)
}

// endAlarm tears down r, if it is still the live alarm.
func (c *Controller) endAlarm(r *ringing) {
	c.mu.Lock()
	if c.ring != r {
		c.mu.Unlock()
		return
	}
	c.ring = nil
	if c.ann != nil {
		c.display = c.ann.text
	} else {
		c.display = ""
	}
	c.endSession(r.sessionID)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	r.hold.Cancel()
	c.siren.Stop()
	c.log.Info("alarm stopped")
	c.emit(nil, snap)
}

// beginSession records a playback. Failing to record it never blocks the
// playback itself.
func (c *Controller) beginSession(kind domain.PlaybackKind, text string) string {
	sess, err := c.store.Begin(context.Background(), kind, text)
	if err != nil {
		c.log.Warn("recording %s session: %v", kind, err)
		return ""
	}
	return sess.ID
}

func (c *Controller) endSession(id string) {
	if id == "" {
		return
	}
	if err := c.store.End(context.Background(), id); err != nil {
		c.log.Warn("ending session %s: %v", id, err)
	}
}

func (c *Controller) snapshotLocked() domain.ClockState {
	return domain.ClockState{
		Current:             c.current,
		Alarm:               c.alarm.Time,
		Armed:               c.alarm.Armed,
		AnnouncementPlaying: c.ann != nil,
		AlarmPlaying:        c.ring != nil,
		DisplayText:         c.display,
	}
}

// emit delivers notifications and the state change. Must be called
// without c.mu held.
func (c *Controller) emit(events []event, snap domain.ClockState) {
	if c.notifier != nil {
		ctx := context.Background()
		for _, ev := range events {
			var err error
			if ev.urgent {
				err = c.notifier.NotifyUrgent(ctx, ev.text)
			} else {
				err = c.notifier.Notify(ctx, ev.text)
			}
			if err != nil {
				c.log.Warn("notify: %v", err)
			}
		}
	}
	if c.listener != nil {
		c.listener(snap)
	}
}
