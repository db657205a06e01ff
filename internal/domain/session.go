package domain

import "time"

// PlaybackKind separates the two independent audio channels of the clock.
type PlaybackKind int

const (
	PlaybackAnnouncement PlaybackKind = iota
	PlaybackAlarm
)

// String returns a human-readable playback kind.
func (k PlaybackKind) String() string {
	switch k {
	case PlaybackAnnouncement:
		return "announcement"
	case PlaybackAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// PlaybackSession is the record of one live playback. At most one session
// per kind is active at a time.
type PlaybackSession struct {
	ID        string
	Kind      PlaybackKind
	Text      string
	StartedAt time.Time
	EndedAt   time.Time
	Active    bool
}

// ClockState is the read-only view handed to the presentation layer.
type ClockState struct {
	Current             ClockTime
	Alarm               ClockTime
	Armed               bool
	AnnouncementPlaying bool
	AlarmPlaying        bool
	DisplayText         string
}

// Playing reports whether any audio session is live.
func (s ClockState) Playing() bool {
	return s.AnnouncementPlaying || s.AlarmPlaying
}
