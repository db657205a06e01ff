package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHourWraparound(t *testing.T) {
	t.Parallel()

	require.Equal(t, ClockTime{1, 20}, ClockTime{12, 20}.IncrementHour())
	require.Equal(t, ClockTime{12, 20}, ClockTime{1, 20}.DecrementHour())
	require.Equal(t, ClockTime{12, 0}, ClockTime{11, 0}.IncrementHour())
	require.Equal(t, ClockTime{11, 0}, ClockTime{12, 0}.DecrementHour())
}

func TestMinuteRollover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ClockTime
		adj  Adjustment
		want ClockTime
	}{
		{"simple increment", ClockTime{7, 10}, IncrementMinute, ClockTime{7, 11}},
		{"carry into hour", ClockTime{7, 59}, IncrementMinute, ClockTime{8, 0}},
		{"carry past twelve", ClockTime{12, 59}, IncrementMinute, ClockTime{1, 0}},
		{"simple decrement", ClockTime{7, 10}, DecrementMinute, ClockTime{7, 9}},
		{"borrow from hour", ClockTime{7, 0}, DecrementMinute, ClockTime{6, 59}},
		{"borrow past one", ClockTime{1, 0}, DecrementMinute, ClockTime{12, 59}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Apply(tt.adj)
			require.Equal(t, tt.want, got)
			require.NoError(t, got.Validate())
		})
	}
}

func TestApplyKeepsInvariantsOverLongWalks(t *testing.T) {
	t.Parallel()

	ct := ClockTime{12, 0}
	for i := 0; i < 12*60; i++ {
		ct = ct.IncrementMinute()
		require.NoError(t, ct.Validate())
	}
	require.Equal(t, ClockTime{12, 0}, ct)

	for i := 0; i < 12*60; i++ {
		ct = ct.DecrementMinute()
		require.NoError(t, ct.Validate())
	}
	require.Equal(t, ClockTime{12, 0}, ct)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, bad := range []ClockTime{{0, 0}, {13, 0}, {5, -1}, {5, 60}, {}} {
		err := bad.Validate()
		require.Error(t, err, bad)
		require.True(t, errors.Is(err, ErrInvalidTimeValue))
	}
	_, err := NewClockTime(12, 59)
	require.NoError(t, err)
}

func TestFromWallClock(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, ClockTime{12, 0}, FromWallClock(day))
	require.Equal(t, ClockTime{12, 30}, FromWallClock(day.Add(12*time.Hour+30*time.Minute)))
	require.Equal(t, ClockTime{7, 5}, FromWallClock(day.Add(19*time.Hour+5*time.Minute)))
	require.Equal(t, ClockTime{9, 59}, FromWallClock(day.Add(9*time.Hour+59*time.Minute)))
}

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	got, err := ParseClockTime("7:05")
	require.NoError(t, err)
	require.Equal(t, ClockTime{7, 5}, got)
	require.Equal(t, "7:05", got.String())

	got, err = ParseClockTime("19:45")
	require.NoError(t, err)
	require.Equal(t, ClockTime{7, 45}, got)

	got, err = ParseClockTime("0:15")
	require.NoError(t, err)
	require.Equal(t, ClockTime{12, 15}, got)

	for _, bad := range []string{"", "7", "7:60", "24:00", "a:b", "7:-1"} {
		_, err := ParseClockTime(bad)
		require.ErrorIs(t, err, ErrInvalidTimeValue, bad)
	}
}

func TestAlarmMatches(t *testing.T) {
	t.Parallel()

	a := AlarmState{Time: ClockTime{7, 0}}
	require.False(t, a.Matches(ClockTime{7, 0}), "disarmed alarm never matches")

	a.Armed = true
	require.True(t, a.Matches(ClockTime{7, 0}))
	require.False(t, a.Matches(ClockTime{7, 1}))
	require.False(t, a.Matches(ClockTime{8, 0}))
}

func TestToneValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Tone{Frequency: 440, Duration: 300 * time.Millisecond, Volume: 0.5}.Validate())
	require.NoError(t, Tone{Frequency: 440, Volume: 0}.Validate())

	for _, bad := range []Tone{
		{Frequency: 0, Volume: 0.5},
		{Frequency: -1, Volume: 0.5},
		{Frequency: 440, Duration: -time.Millisecond, Volume: 0.5},
		{Frequency: 440, Volume: 1.5},
	} {
		require.ErrorIs(t, bad.Validate(), ErrInvalidTone)
	}
}
