package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

func setupAlarm(t *testing.T) (*AlarmGenerator, *SilentDevice, *timer.Manual) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	dev := NewSilentDevice(log)
	clock := timer.NewManual(epoch)
	return NewAlarmGenerator(dev, clock, log), dev, clock
}

func TestAlarmPattern(t *testing.T) {
	gen, dev, clock := setupAlarm(t)

	require.Equal(t, "ALARM! ALARM! ALARM!", gen.Play())
	require.True(t, gen.Active())
	require.Empty(t, dev.Started(), "first tone comes one interval after Play")

	clock.Advance(350 * time.Millisecond)
	clock.Advance(350 * time.Millisecond)
	clock.Advance(350 * time.Millisecond)
	clock.Advance(350 * time.Millisecond)

	started := dev.Started()
	require.Len(t, started, 4)
	for i, tone := range started {
		want := 880.0
		if i%2 == 1 {
			want = 440.0
		}
		require.Equal(t, want, tone.Frequency, "tone %d", i)
		require.Equal(t, 300*time.Millisecond, tone.Duration)
		require.Equal(t, 0.5, tone.Volume)
	}
	require.Equal(t, 4, gen.Count())
	require.LessOrEqual(t, dev.Active(), 1, "previous tone is always silenced")
}

func TestAlarmStopCancelsInterval(t *testing.T) {
	gen, dev, clock := setupAlarm(t)

	gen.Play()
	clock.Advance(400 * time.Millisecond)
	require.Equal(t, 1, dev.Active())

	gen.Stop()
	gen.Stop()
	require.False(t, gen.Active())
	require.Zero(t, dev.Active())

	n := len(dev.Started())
	clock.Advance(5 * time.Second)
	require.Len(t, dev.Started(), n)
	require.Zero(t, clock.Pending())
}

func TestAlarmPlayWhileActiveIsNoop(t *testing.T) {
	gen, dev, clock := setupAlarm(t)

	gen.Play()
	gen.Play()
	gen.Play()

	clock.Advance(350 * time.Millisecond)
	require.Len(t, dev.Started(), 1, "only one interval runs")
	require.Equal(t, 2, clock.Pending(), "one interval plus the live tone's expiry")

	gen.Stop()
	require.Zero(t, clock.Pending())
}

func TestAlarmReplayAfterStop(t *testing.T) {
	gen, dev, clock := setupAlarm(t)

	gen.Play()
	clock.Advance(1050 * time.Millisecond)
	gen.Stop()

	gen.Play()
	require.Zero(t, gen.Count())
	clock.Advance(350 * time.Millisecond)
	started := dev.Started()
	require.Equal(t, 880.0, started[len(started)-1].Frequency, "a new run starts high again")
	gen.Stop()
	require.Zero(t, dev.Active())
}

func TestStopBeforeFirstTone(t *testing.T) {
	gen, dev, clock := setupAlarm(t)

	gen.Play()
	gen.Stop()
	clock.Advance(time.Second)
	require.Empty(t, dev.Started())
}
