package domain

import (
	"fmt"
	"math"
	"time"
)

// Tone is one audible sound event. A zero Duration means the tone sounds
// until it is stopped.
type Tone struct {
	Frequency float64 // Hz
	Duration  time.Duration
	Volume    float64 // 0..1
}

// Validate reports ErrInvalidTone for values no generator should produce.
func (t Tone) Validate() error {
	if math.IsNaN(t.Frequency) || math.IsInf(t.Frequency, 0) || t.Frequency <= 0 {
		return fmt.Errorf("frequency %v: %w", t.Frequency, ErrInvalidTone)
	}
	if t.Duration < 0 {
		return fmt.Errorf("duration %s: %w", t.Duration, ErrInvalidTone)
	}
	if math.IsNaN(t.Volume) || t.Volume < 0 || t.Volume > 1 {
		return fmt.Errorf("volume %v: %w", t.Volume, ErrInvalidTone)
	}
	return nil
}

// String is used in log lines.
func (t Tone) String() string {
	if t.Duration == 0 {
		return fmt.Sprintf("%.0fHz vol=%.2f (held)", t.Frequency, t.Volume)
	}
	return fmt.Sprintf("%.0fHz vol=%.2f for %s", t.Frequency, t.Volume, t.Duration)
}

// ScheduledTone is a tone placed on a sequence timeline. Index is the
// position of the character that produced it.
type ScheduledTone struct {
	Offset time.Duration
	Index  int
	Tone   Tone
}
