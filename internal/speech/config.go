package speech

import "time"

// Audio parameters for the PCM stream handed to the output device.
const (
	SampleRate   = 44100
	ChannelCount = 1
	BitDepth     = 16
)

// Voice shaping for spoken text. Every character maps to one tone whose
// pitch and length are derived from its code point.
const (
	baseFrequency    = 220.0 // A3
	frequencyStep    = 10.0
	frequencyBuckets = 20
	baseCharDuration = 80 * time.Millisecond
	charDurationStep = 10 * time.Millisecond
	durationBuckets  = 5
	charGap          = 20 * time.Millisecond
	wordGap          = 150 * time.Millisecond
	speechVolume     = 0.3
)

// Alarm pattern.
const (
	alarmHighFrequency = 880.0 // A5
	alarmLowFrequency  = 440.0 // A4
	alarmToneDuration  = 300 * time.Millisecond
	alarmVolume        = 0.5

	// DefaultAlarmInterval is the spacing between alarm tones.
	DefaultAlarmInterval = 350 * time.Millisecond

	// AlarmBanner is the text shown while the alarm sounds.
	AlarmBanner = "ALARM! ALARM! ALARM!"
)

// fallbackFrequency replaces an unusable frequency outside debug builds.
const fallbackFrequency = baseFrequency

// fadeDuration ramps each voice in and out so tones don't click.
const fadeDuration = 5 * time.Millisecond
