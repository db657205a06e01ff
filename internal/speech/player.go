package speech

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Device realizes tones on some sound output. One Device is shared by every
// ToneSource in the process.
type Device interface {
	// Start begins sounding t and returns the live voice. Errors wrap
	// domain.ErrResourceUnavailable.
	Start(t domain.Tone) (Voice, error)
}

// Voice is one live sound on a Device.
type Voice interface {
	// Stop silences the voice and releases whatever it holds. Idempotent.
	Stop()
}

// Compile-time interface check.
var _ Device = (*OtoDevice)(nil)

// OtoDevice plays tones through the system audio output via oto. The audio
// context is created lazily on the first Start, since oto allows a single
// context per process and opening it can fail on headless machines. Create
// one OtoDevice per process.
type OtoDevice struct {
	log *logger.Logger

	once    sync.Once
	ctx     *oto.Context
	initErr error
}

// NewOtoDevice returns a device that opens the audio context on first use.
func NewOtoDevice(log *logger.Logger) *OtoDevice {
	return &OtoDevice{log: log}
}

// context opens the shared oto context once. A failure is sticky.
func (d *OtoDevice) context() (*oto.Context, error) {
	d.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			d.initErr = fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
			d.log.Error("audio context init failed: %v", err)
			return
		}
		<-ready

		d.ctx = ctx
		d.log.Debug("audio context initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	})
	return d.ctx, d.initErr
}

// Start opens a player streaming a sine wave for t.
func (d *OtoDevice) Start(t domain.Tone) (Voice, error) {
	ctx, err := d.context()
	if err != nil {
		return nil, err
	}

	player := ctx.NewPlayer(newSineReader(t, SampleRate))
	player.Play()
	d.log.Debug("audio player: started %s", t)

	return &otoVoice{player: player, log: d.log}, nil
}

type otoVoice struct {
	player *oto.Player
	log    *logger.Logger
	once   sync.Once
}

func (v *otoVoice) Stop() {
	v.once.Do(func() {
		v.player.Pause()
		if err := v.player.Close(); err != nil {
			v.log.Warn("audio player: close: %v", err)
		}
	})
}

// sineReader streams signed 16-bit little-endian mono PCM for one tone.
// A tone with zero duration streams until its player is closed.
type sineReader struct {
	freq       float64
	amplitude  float64
	sampleRate int
	total      int // samples to produce, <0 for unbounded
	fade       int // samples in each ramp
	pos        int
}

func newSineReader(t domain.Tone, sampleRate int) *sineReader {
	total := -1
	if t.Duration > 0 {
		total = samplesIn(t.Duration, sampleRate)
	}
	fade := samplesIn(fadeDuration, sampleRate)
	if total >= 0 && fade*2 > total {
		fade = total / 2
	}
	return &sineReader{
		freq:       t.Frequency,
		amplitude:  t.Volume * math.MaxInt16,
		sampleRate: sampleRate,
		total:      total,
		fade:       fade,
	}
}

// samplesIn converts a duration to a whole number of samples, truncating.
func samplesIn(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

func (r *sineReader) Read(p []byte) (int, error) {
	if r.total >= 0 && r.pos >= r.total {
		return 0, io.EOF
	}

	n := 0
	for n+2 <= len(p) {
		if r.total >= 0 && r.pos >= r.total {
			break
		}
		t := float64(r.pos) / float64(r.sampleRate)
		v := math.Sin(2*math.Pi*r.freq*t) * r.amplitude * r.envelope()
		binary.LittleEndian.PutUint16(p[n:], uint16(int16(v)))
		r.pos++
		n += 2
	}
	return n, nil
}

// envelope is a linear fade in at the start and fade out before the end.
func (r *sineReader) envelope() float64 {
	if r.fade <= 0 {
		return 1
	}
	if r.pos < r.fade {
		return float64(r.pos) / float64(r.fade)
	}
	if r.total >= 0 {
		if left := r.total - r.pos; left < r.fade {
			return float64(left) / float64(r.fade)
		}
	}
	return 1
}
