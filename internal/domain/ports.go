package domain

import "context"

// AnnouncementCatalog maps a quantized dial position to the phrase the
// clock speaks for it.
type AnnouncementCatalog interface {
	// Lookup returns ErrCatalogMiss for keys the catalog does not hold.
	Lookup(hour, minute int) (string, error)
	// Phrase never fails; unknown keys resolve to a fixed fallback.
	Phrase(hour, minute int) string
}

// SessionStore tracks playback sessions. Implementations must refuse to
// begin a second active session of the same kind.
type SessionStore interface {
	Begin(ctx context.Context, kind PlaybackKind, text string) (*PlaybackSession, error)
	End(ctx context.Context, id string) error
	Active(ctx context.Context, kind PlaybackKind) (*PlaybackSession, error)
	History(ctx context.Context) ([]*PlaybackSession, error)
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, pop a desktop notification, or fan out to several others.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
