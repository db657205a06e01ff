package speech

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

var epoch = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

func setupSequencer(t *testing.T) (*Sequencer, *SilentDevice, *timer.Manual) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	dev := NewSilentDevice(log)
	clock := timer.NewManual(epoch)
	return NewSequencer(dev, clock, log), dev, clock
}

func TestComposeAB(t *testing.T) {
	got := Compose("AB")
	want := []domain.ScheduledTone{
		{Offset: 0, Index: 0, Tone: domain.Tone{Frequency: 270, Duration: 80 * time.Millisecond, Volume: 0.3}},
		{Offset: 100 * time.Millisecond, Index: 1, Tone: domain.Tone{Frequency: 280, Duration: 90 * time.Millisecond, Volume: 0.3}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("Compose(\"AB\") mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 210*time.Millisecond, TotalDuration("AB"))
}

func TestComposeSpacesArePauses(t *testing.T) {
	got := Compose("A B")
	require.Len(t, got, 2)
	require.Equal(t, 0, got[0].Index)
	require.Equal(t, 2, got[1].Index)
	// 'A' takes 80ms + 20ms gap, then the 150ms word pause.
	require.Equal(t, 250*time.Millisecond, got[1].Offset)
}

func TestComposeEmpty(t *testing.T) {
	require.Empty(t, Compose(""))
	require.Zero(t, TotalDuration(""))
	require.Empty(t, Compose("   "))
	require.Equal(t, 450*time.Millisecond, TotalDuration("   "))
}

func TestComposeProperties(t *testing.T) {
	inputs := []string{
		"The time is half past 10",
		"The time is quarter to 11",
		"ALARM! ALARM! ALARM!",
		"  leading and trailing  ",
		"tabs\tand\nnewlines",
		"héllo wörld ☎",
		string([]byte{0xff, 'a', 0xfe}),
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Compose(in)

			nonSpace := 0
			for _, r := range in {
				if r != ' ' {
					nonSpace++
				}
			}
			require.Len(t, got, nonSpace)

			var prev time.Duration
			for _, st := range got {
				require.GreaterOrEqual(t, st.Tone.Frequency, 220.0)
				require.LessOrEqual(t, st.Tone.Frequency, 410.0)
				require.GreaterOrEqual(t, st.Tone.Duration, 80*time.Millisecond)
				require.LessOrEqual(t, st.Tone.Duration, 120*time.Millisecond)
				require.Equal(t, 0.3, st.Tone.Volume)
				require.GreaterOrEqual(t, st.Offset, prev)
				prev = st.Offset
			}
		})
	}
}

func TestComposeNonASCIIUsesCodePoints(t *testing.T) {
	// 'é' is U+00E9 (233): 233%20=13 -> 350Hz, 233%5=3 -> 110ms.
	got := Compose("é")
	require.Len(t, got, 1)
	require.Equal(t, 350.0, got[0].Tone.Frequency)
	require.Equal(t, 110*time.Millisecond, got[0].Tone.Duration)

	// Invalid bytes read as U+FFFD (65533): 65533%20=13, 65533%5=3.
	bad := Compose(string([]byte{0xff}))
	require.Len(t, bad, 1)
	require.Equal(t, got[0].Tone, bad[0].Tone)

	// Same input, same output.
	require.Equal(t, Compose("héllo ☎"), Compose("héllo ☎"))
}

func TestPlayReturnsTextImmediately(t *testing.T) {
	seqr, dev, _ := setupSequencer(t)

	seq, text := seqr.Play("The time is 10 o'clock")
	require.Equal(t, "The time is 10 o'clock", text)
	require.Equal(t, text, seq.Text())
	require.Empty(t, dev.Started(), "nothing sounds until the timers fire")
	require.False(t, seq.Done())
}

func TestPlayFiresOnSchedule(t *testing.T) {
	seqr, dev, clock := setupSequencer(t)

	seq, _ := seqr.Play("AB")

	clock.Advance(0)
	require.Len(t, dev.Started(), 1)
	require.Equal(t, 270.0, dev.Started()[0].Frequency)
	require.Equal(t, 1, seq.Live())

	clock.Advance(80 * time.Millisecond)
	require.Equal(t, 0, seq.Live(), "first tone self-stops after its duration")

	clock.Advance(20 * time.Millisecond)
	require.Len(t, dev.Started(), 2)
	require.Equal(t, 280.0, dev.Started()[1].Frequency)

	clock.Advance(time.Second)
	require.True(t, seq.Done())
	require.Equal(t, 2, seq.Started())
	require.Zero(t, dev.Active())
	require.Zero(t, clock.Pending())
}

func TestStopBeforeAnyTimerFires(t *testing.T) {
	seqr, dev, clock := setupSequencer(t)

	seq, _ := seqr.Play("The time is quarter past 7")
	seq.Stop()
	seq.Stop()

	clock.Advance(10 * time.Second)
	require.Empty(t, dev.Started())
	require.Zero(t, seq.Started())
	require.True(t, seq.Done())
	require.Zero(t, clock.Pending())
}

func TestStopMidSequenceSilencesLiveTones(t *testing.T) {
	seqr, dev, clock := setupSequencer(t)

	seq, _ := seqr.Play(strings.Repeat("x", 20))
	clock.Advance(250 * time.Millisecond)
	require.NotEmpty(t, dev.Started())
	require.Equal(t, 1, dev.Active())

	started := len(dev.Started())
	seq.Stop()
	require.Zero(t, dev.Active())
	require.Zero(t, seq.Live())

	clock.Advance(10 * time.Second)
	require.Len(t, dev.Started(), started, "no tone starts after Stop")
	require.Zero(t, clock.Pending())
}

func TestEmptyTextIsImmediatelyDone(t *testing.T) {
	seqr, dev, clock := setupSequencer(t)

	seq, text := seqr.Play("")
	require.Empty(t, text)
	require.True(t, seq.Done())
	require.Zero(t, seq.Duration())
	require.Zero(t, clock.Pending())
	require.Empty(t, dev.Started())
	seq.Stop()
}

func TestDeviceFailureDoesNotLeak(t *testing.T) {
	seqr, dev, clock := setupSequencer(t)
	dev.SetFailure(domain.ErrResourceUnavailable)

	seq, text := seqr.Play("hi")
	require.Equal(t, "hi", text)

	clock.Advance(time.Second)
	require.Zero(t, seq.Started())
	require.True(t, seq.Done())
	require.Zero(t, dev.Active())
	require.Zero(t, clock.Pending())
}
