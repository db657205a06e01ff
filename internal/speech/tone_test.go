package speech

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

func setupSource(t *testing.T, tone domain.Tone) (*ToneSource, *SilentDevice, *timer.Manual, *int) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	dev := NewSilentDevice(log)
	clock := timer.NewManual(epoch)
	releases := new(int)
	src := NewToneSource(dev, clock, tone, log, WithReleaseHook(func() { *releases++ }))
	return src, dev, clock, releases
}

func TestToneSourceSelfStops(t *testing.T) {
	src, dev, clock, releases := setupSource(t, domain.Tone{Frequency: 440, Duration: 300 * time.Millisecond, Volume: 0.5})

	require.NoError(t, src.Start())
	require.True(t, src.Live())
	require.Equal(t, 1, dev.Active())

	clock.Advance(299 * time.Millisecond)
	require.True(t, src.Live())

	clock.Advance(time.Millisecond)
	require.False(t, src.Live())
	require.Zero(t, dev.Active())
	require.Equal(t, 1, *releases)

	// Stopping after natural completion is harmless.
	src.Stop()
	src.Stop()
	require.Equal(t, 1, *releases)
}

func TestToneSourceDurationMeasuredFromStart(t *testing.T) {
	src, _, clock, _ := setupSource(t, domain.Tone{Frequency: 440, Duration: 100 * time.Millisecond, Volume: 0.5})

	clock.Advance(time.Second)
	require.NoError(t, src.Start())

	clock.Advance(99 * time.Millisecond)
	require.True(t, src.Live())
	clock.Advance(time.Millisecond)
	require.False(t, src.Live())
}

func TestToneSourceStopIsIdempotent(t *testing.T) {
	src, dev, clock, releases := setupSource(t, domain.Tone{Frequency: 440, Volume: 0.5})

	require.NoError(t, src.Start())
	require.NoError(t, src.Start(), "second start on a live source is a no-op")
	require.Equal(t, 1, dev.Active())

	src.Stop()
	src.Stop()
	src.Stop()
	require.Zero(t, dev.Active())
	require.Equal(t, 1, *releases)
	require.Zero(t, clock.Pending())
}

func TestToneSourceHeldUntilStopped(t *testing.T) {
	src, dev, clock, _ := setupSource(t, domain.Tone{Frequency: 440, Volume: 0.5})

	require.NoError(t, src.Start())
	require.Zero(t, clock.Pending(), "a held tone schedules no expiry")

	clock.Advance(time.Hour)
	require.True(t, src.Live())

	src.Stop()
	require.Zero(t, dev.Active())
}

func TestToneSourceStartAfterStop(t *testing.T) {
	src, dev, _, releases := setupSource(t, domain.Tone{Frequency: 440, Volume: 0.5})

	src.Stop()
	err := src.Start()
	require.ErrorIs(t, err, domain.ErrSourceStopped)
	require.Empty(t, dev.Started())
	require.Zero(t, *releases, "a source that never sounded releases nothing")
}

func TestToneSourceDeviceFailure(t *testing.T) {
	src, dev, _, releases := setupSource(t, domain.Tone{Frequency: 440, Volume: 0.5})
	dev.SetFailure(domain.ErrResourceUnavailable)

	err := src.Start()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrResourceUnavailable))
	require.False(t, src.Live())

	src.Stop()
	require.Zero(t, *releases)
}

func TestSanitizeToneClampsInRelease(t *testing.T) {
	if strictTones {
		t.Skip("debug builds panic instead of clamping")
	}
	log := logger.New(logger.LevelOff, nil)

	got := sanitizeTone(domain.Tone{Frequency: math.NaN(), Duration: -time.Second, Volume: 3}, log)
	require.Equal(t, domain.Tone{Frequency: fallbackFrequency, Duration: 0, Volume: 1}, got)

	ok := domain.Tone{Frequency: 300, Duration: time.Second, Volume: 0.2}
	require.Equal(t, ok, sanitizeTone(ok, log))
}

func TestSineReader(t *testing.T) {
	r := newSineReader(domain.Tone{Frequency: 440, Duration: 10 * time.Millisecond, Volume: 1}, SampleRate)

	buf := make([]byte, 4096)
	total := 0
	for {
		n, err := r.Read(buf)
		total += n
		if err != nil {
			break
		}
	}
	require.Equal(t, samplesIn(10*time.Millisecond, SampleRate)*2, total)

	held := newSineReader(domain.Tone{Frequency: 440, Volume: 0.5}, SampleRate)
	n, err := held.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
}
