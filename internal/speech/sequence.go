package speech

import (
	"sync"
	"time"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// Compose converts text into its tone timeline. The result is deterministic:
//
//   - a space adds a 150ms pause and no tone;
//   - any other character c adds a tone of 220 + (c mod 20)*10 Hz lasting
//     80 + (c mod 5)*10 ms at volume 0.3, followed by a 20ms gap.
//
// c is the Unicode code point. Text is read rune by rune, so a multi-byte
// character yields a single tone, ScheduledTone.Index is the rune position,
// and invalid UTF-8 bytes are read as U+FFFD.
func Compose(text string) []domain.ScheduledTone {
	var out []domain.ScheduledTone
	offset := time.Duration(0)

	i := 0
	for _, r := range text {
		if r == ' ' {
			offset += wordGap
			i++
			continue
		}
		t := charTone(r)
		out = append(out, domain.ScheduledTone{Offset: offset, Index: i, Tone: t})
		offset += t.Duration + charGap
		i++
	}
	return out
}

// TotalDuration is the length of the timeline Compose builds for text,
// including the trailing gap after the last character.
func TotalDuration(text string) time.Duration {
	total := time.Duration(0)
	for _, r := range text {
		if r == ' ' {
			total += wordGap
			continue
		}
		total += charTone(r).Duration + charGap
	}
	return total
}

func charTone(r rune) domain.Tone {
	code := int(r)
	return domain.Tone{
		Frequency: baseFrequency + float64(code%frequencyBuckets)*frequencyStep,
		Duration:  baseCharDuration + time.Duration(code%durationBuckets)*charDurationStep,
		Volume:    speechVolume,
	}
}

// Sequencer plays text as tone sequences on a device.
type Sequencer struct {
	dev   Device
	sched timer.Scheduler
	log   *logger.Logger
}

// NewSequencer creates a sequencer.
func NewSequencer(dev Device, sched timer.Scheduler, log *logger.Logger) *Sequencer {
	return &Sequencer{dev: dev, sched: sched, log: log}
}

// Play schedules every tone of text relative to now and returns at once
// with the text for display. Each tone fires from its own timer.
func (s *Sequencer) Play(text string) (*Sequence, string) {
	seq := &Sequence{
		text:  text,
		tones: Compose(text),
		dev:   s.dev,
		sched: s.sched,
		log:   s.log,
		live:  make(map[*ToneSource]struct{}),
	}

	seq.mu.Lock()
	seq.timers = make([]timer.Handle, 0, len(seq.tones))
	for _, st := range seq.tones {
		seq.timers = append(seq.timers, s.sched.AfterFunc(st.Offset, func() { seq.fire(st) }))
	}
	seq.mu.Unlock()

	s.log.Debug("sequencer: scheduled %d tones over %s: %q", len(seq.tones), TotalDuration(text), text)
	return seq, text
}

// Sequence is one scheduled utterance. It owns the timers that have not
// fired yet and the sources that are still sounding.
type Sequence struct {
	text  string
	tones []domain.ScheduledTone
	dev   Device
	sched timer.Scheduler
	log   *logger.Logger

	mu      sync.Mutex
	timers  []timer.Handle
	live    map[*ToneSource]struct{}
	fired   int
	started int
	stopped bool
}

// fire starts the source for one scheduled tone unless the sequence was stopped.
func (q *Sequence) fire(st domain.ScheduledTone) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return
	}
	q.fired++

	var src *ToneSource
	src = NewToneSource(q.dev, q.sched, st.Tone, q.log, WithReleaseHook(func() { q.release(src) }))
	if err := src.Start(); err != nil {
		q.log.Warn("sequencer: tone %d: %v", st.Index, err)
		return
	}
	q.live[src] = struct{}{}
	q.started++
}

func (q *Sequence) release(src *ToneSource) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.live, src)
}

// Stop cancels every tone that has not fired and silences every tone that
// is sounding. Idempotent; safe before any tone has fired.
func (q *Sequence) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	timers := q.timers
	q.timers = nil
	live := make([]*ToneSource, 0, len(q.live))
	for src := range q.live {
		live = append(live, src)
	}
	q.mu.Unlock()

	cancelled := 0
	for _, h := range timers {
		if h.Cancel() {
			cancelled++
		}
	}
	for _, src := range live {
		src.Stop()
	}
	q.log.Debug("sequencer: stopped %q (%d pending cancelled, %d live silenced)", q.text, cancelled, len(live))
}

// Text returns the utterance.
func (q *Sequence) Text() string { return q.text }

// Tones returns the timeline. The slice must not be modified.
func (q *Sequence) Tones() []domain.ScheduledTone { return q.tones }

// Duration is the scheduled length of the utterance.
func (q *Sequence) Duration() time.Duration { return TotalDuration(q.text) }

// Live returns the number of tones currently sounding.
func (q *Sequence) Live() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.live)
}

// Started returns the number of tones that actually began sounding.
func (q *Sequence) Started() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.started
}

// Done reports whether the sequence was stopped, or every tone has fired
// and finished.
func (q *Sequence) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped || (q.fired == len(q.tones) && len(q.live) == 0)
}
