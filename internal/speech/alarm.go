package speech

import (
	"sync"
	"time"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// AlarmOption configures the alarm generator.
type AlarmOption func(*AlarmGenerator)

// WithAlarmInterval sets the spacing between alarm tones.
func WithAlarmInterval(d time.Duration) AlarmOption {
	return func(g *AlarmGenerator) {
		if d > 0 {
			g.interval = d
		}
	}
}

// AlarmGenerator sounds an endless high/low siren until stopped. Each tick
// silences the previous tone and starts the next one; the first tone is the
// high one and comes one interval after Play.
type AlarmGenerator struct {
	dev      Device
	sched    timer.Scheduler
	log      *logger.Logger
	interval time.Duration

	mu     sync.Mutex
	active bool
	ticker timer.Handle
	last   *ToneSource
	count  int
}

// NewAlarmGenerator creates an idle generator.
func NewAlarmGenerator(dev Device, sched timer.Scheduler, log *logger.Logger, opts ...AlarmOption) *AlarmGenerator {
	g := &AlarmGenerator{
		dev:      dev,
		sched:    sched,
		log:      log,
		interval: DefaultAlarmInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Play starts the siren and returns the banner text. Calling Play while the
// siren is already running does nothing, so at most one interval exists.
func (g *AlarmGenerator) Play() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		g.log.Debug("alarm generator: already sounding")
		return AlarmBanner
	}
	g.active = true
	g.count = 0
	g.ticker = g.sched.Every(g.interval, g.step)
	g.log.Debug("alarm generator: started (interval=%s)", g.interval)
	return AlarmBanner
}

// step swaps the previous tone for the next one in the pattern.
func (g *AlarmGenerator) step() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return
	}
	if g.last != nil {
		g.last.Stop()
	}

	freq := alarmLowFrequency
	if g.count%2 == 0 {
		freq = alarmHighFrequency
	}
	g.count++

	src := NewToneSource(g.dev, g.sched, domain.Tone{
		Frequency: freq,
		Duration:  alarmToneDuration,
		Volume:    alarmVolume,
	}, g.log)
	g.last = src
	if err := src.Start(); err != nil {
		g.log.Warn("alarm generator: %v", err)
	}
}

// Stop cancels the interval and silences the last tone. Idempotent. The
// generator can be played again afterwards.
func (g *AlarmGenerator) Stop() {
	g.mu.Lock()
	if !g.active {
		g.mu.Unlock()
		return
	}
	g.active = false
	ticker, last := g.ticker, g.last
	g.ticker, g.last = nil, nil
	g.mu.Unlock()

	ticker.Cancel()
	if last != nil {
		last.Stop()
	}
	g.log.Debug("alarm generator: stopped")
}

// Active reports whether the siren is running.
func (g *AlarmGenerator) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Count returns the number of tones produced since the last Play.
func (g *AlarmGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
