package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a 12-hour dial position. Hours are 1..12, minutes 0..59.
// The zero value is not a valid time; use NewClockTime or FromWallClock.
type ClockTime struct {
	Hours   int
	Minutes int
}

// NewClockTime returns a validated ClockTime.
func NewClockTime(hours, minutes int) (ClockTime, error) {
	t := ClockTime{Hours: hours, Minutes: minutes}
	if err := t.Validate(); err != nil {
		return ClockTime{}, err
	}
	return t, nil
}

// FromWallClock folds a wall-clock instant onto the 12-hour dial.
// Midnight and noon both read 12.
func FromWallClock(t time.Time) ClockTime {
	return ClockTime{Hours: foldHour(t.Hour()), Minutes: t.Minute()}
}

// ParseClockTime parses "H:MM" or "HH:MM". Hours 0 and 13..23 are folded
// onto the 12-hour dial so a 24-hour reading is accepted.
func ParseClockTime(s string) (ClockTime, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("parse %q: %w", s, ErrInvalidTimeValue)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("parse hour %q: %w", hs, ErrInvalidTimeValue)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse minute %q: %w", ms, ErrInvalidTimeValue)
	}
	return NewClockTime(foldHour(h), m)
}

// Validate reports ErrInvalidTimeValue when either field is off the dial.
func (t ClockTime) Validate() error {
	if t.Hours < 1 || t.Hours > 12 {
		return fmt.Errorf("hour %d outside 1..12: %w", t.Hours, ErrInvalidTimeValue)
	}
	if t.Minutes < 0 || t.Minutes > 59 {
		return fmt.Errorf("minute %d outside 0..59: %w", t.Minutes, ErrInvalidTimeValue)
	}
	return nil
}

// IncrementHour moves the hour hand forward, 12 wraps to 1.
func (t ClockTime) IncrementHour() ClockTime {
	t.Hours = foldHour(t.Hours + 1)
	return t
}

// DecrementHour moves the hour hand back, 1 wraps to 12.
func (t ClockTime) DecrementHour() ClockTime {
	t.Hours = foldHour(t.Hours - 1 + 12)
	return t
}

// IncrementMinute advances one minute; 59 rolls over to 0 and carries into the hour.
func (t ClockTime) IncrementMinute() ClockTime {
	t.Minutes = (t.Minutes + 1) % 60
	if t.Minutes == 0 {
		t = t.IncrementHour()
	}
	return t
}

// DecrementMinute goes back one minute; 0 rolls under to 59 and borrows from the hour.
func (t ClockTime) DecrementMinute() ClockTime {
	t.Minutes = (t.Minutes - 1 + 60) % 60
	if t.Minutes == 59 {
		t = t.DecrementHour()
	}
	return t
}

// Apply runs the given adjustments in order.
func (t ClockTime) Apply(adjs ...Adjustment) ClockTime {
	for _, a := range adjs {
		switch a {
		case IncrementHour:
			t = t.IncrementHour()
		case DecrementHour:
			t = t.DecrementHour()
		case IncrementMinute:
			t = t.IncrementMinute()
		case DecrementMinute:
			t = t.DecrementMinute()
		}
	}
	return t
}

// String renders the time as the dial reads it, e.g. "7:05".
func (t ClockTime) String() string {
	return fmt.Sprintf("%d:%02d", t.Hours, t.Minutes)
}

func foldHour(h int) int {
	h %= 12
	if h <= 0 {
		h += 12
	}
	return h
}

// Adjustment is a single press of one of the clock's setting knobs.
type Adjustment int

const (
	IncrementHour Adjustment = iota
	DecrementHour
	IncrementMinute
	DecrementMinute
)

// String returns the knob name.
func (a Adjustment) String() string {
	switch a {
	case IncrementHour:
		return "hour+"
	case DecrementHour:
		return "hour-"
	case IncrementMinute:
		return "minute+"
	case DecrementMinute:
		return "minute-"
	default:
		return "unknown"
	}
}

// AlarmState is the alarm setting plus the edge flag that stops an alarm
// from re-firing while the clock keeps matching the same minute.
type AlarmState struct {
	Time      ClockTime
	Armed     bool
	Triggered bool
}

// Matches reports whether an armed alarm is due at the given time.
func (a AlarmState) Matches(now ClockTime) bool {
	return a.Armed && a.Time == now
}
