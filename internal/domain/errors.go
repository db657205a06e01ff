package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidTimeValue    = errors.New("invalid time value")
	ErrCatalogMiss         = errors.New("no announcement for time")
	ErrResourceUnavailable = errors.New("audio resource unavailable")
	ErrSourceStopped       = errors.New("tone source already stopped")
	ErrInvalidTone         = errors.New("invalid tone")
)
