// Package speech turns text into a timed sequence of tones that imitates a
// voice, produces the alarm pattern, and owns the audio voices behind them.
package speech

import (
	"sync"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Compile-time interface check.
var _ Device = (*SilentDevice)(nil)

// SilentOption configures a SilentDevice.
type SilentOption func(*SilentDevice)

// WithStartHook is called (outside the device lock) whenever a voice starts.
func WithStartHook(fn func(domain.Tone)) SilentOption {
	return func(d *SilentDevice) {
		d.onStart = fn
	}
}

// WithStopHook is called (outside the device lock) whenever a voice is released.
func WithStopHook(fn func(domain.Tone)) SilentOption {
	return func(d *SilentDevice) {
		d.onStop = fn
	}
}

// SilentDevice accepts tones without making a sound. Used when sound is
// disabled, by the sequence simulator, and by tests: it counts live voices
// so leaks are visible.
type SilentDevice struct {
	log     *logger.Logger
	onStart func(domain.Tone)
	onStop  func(domain.Tone)

	mu      sync.Mutex
	started []domain.Tone
	active  int
	failErr error
}

// NewSilentDevice creates a silent device.
func NewSilentDevice(log *logger.Logger, opts ...SilentOption) *SilentDevice {
	d := &SilentDevice{log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start records the tone and returns a voice that only counts itself.
func (d *SilentDevice) Start(t domain.Tone) (Voice, error) {
	d.mu.Lock()
	if d.failErr != nil {
		err := d.failErr
		d.mu.Unlock()
		return nil, err
	}
	d.started = append(d.started, t)
	d.active++
	d.mu.Unlock()

	d.log.Debug("silent device: would play %s", t)
	if d.onStart != nil {
		d.onStart(t)
	}
	return &silentVoice{dev: d, tone: t}, nil
}

// SetFailure makes every following Start fail with err; nil restores it.
func (d *SilentDevice) SetFailure(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failErr = err
}

// Active returns the number of voices started and not yet stopped.
func (d *SilentDevice) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Started returns every tone started so far, in order.
func (d *SilentDevice) Started() []domain.Tone {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Tone, len(d.started))
	copy(out, d.started)
	return out
}

type silentVoice struct {
	dev  *SilentDevice
	tone domain.Tone
	once sync.Once
}

func (v *silentVoice) Stop() {
	v.once.Do(func() {
		v.dev.mu.Lock()
		v.dev.active--
		v.dev.mu.Unlock()

		if v.dev.onStop != nil {
			v.dev.onStop(v.tone)
		}
	})
}
