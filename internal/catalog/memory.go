// Package catalog provides the spoken phrases for clock announcements.
package catalog

import (
	"fmt"
	"math"
	"sync"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Compile-time interface check.
var _ domain.AnnouncementCatalog = (*MemoryCatalog)(nil)

// FallbackPhrase is announced when a key cannot be resolved.
const FallbackPhrase = "The time is 10 o'clock"

// Key identifies one catalog entry: an hour and a quarter of that hour.
type Key struct {
	Hour   int
	Minute int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%02d", k.Hour, k.Minute)
}

// MemoryCatalog holds every hour/quarter phrase in memory. Safe for
// concurrent reads.
type MemoryCatalog struct {
	mu      sync.RWMutex
	phrases map[Key]string
	log     *logger.Logger
}

// NewMemoryCatalog creates a catalog preloaded with all 48 phrases.
func NewMemoryCatalog(log *logger.Logger) *MemoryCatalog {
	c := &MemoryCatalog{
		phrases: make(map[Key]string, 48),
		log:     log,
	}
	c.seed()
	return c
}

// Lookup returns the phrase for an exact key. Anything that is not a
// quarter of an hour in 1..12 is a miss.
func (c *MemoryCatalog) Lookup(hour, minute int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.phrases[Key{Hour: hour, Minute: minute}]
	if !ok {
		return "", fmt.Errorf("%d:%02d: %w", hour, minute, domain.ErrCatalogMiss)
	}
	return p, nil
}

// Phrase never fails. The key is normalized first (hour folded to 1..12,
// minute rounded to the nearest quarter); if it is still unknown the
// fallback phrase is returned.
func (c *MemoryCatalog) Phrase(hour, minute int) string {
	h, m := foldHour(hour), Quantize(minute)
	p, err := c.Lookup(h, m)
	if err != nil {
		c.log.Warn("catalog: %v, using fallback", err)
		return FallbackPhrase
	}
	return p
}

// Remove drops an entry. Lookups for it then miss and Phrase falls back.
func (c *MemoryCatalog) Remove(hour, minute int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := Key{Hour: hour, Minute: minute}
	if _, ok := c.phrases[k]; !ok {
		return domain.ErrNotFound
	}
	delete(c.phrases, k)
	return nil
}

// Len returns the number of entries.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.phrases)
}

// Keys lists every key in hour then quarter order.
func Keys() []Key {
	out := make([]Key, 0, 48)
	for h := 1; h <= 12; h++ {
		for m := 0; m < 60; m += 15 {
			out = append(out, Key{Hour: h, Minute: m})
		}
	}
	return out
}

// Quantize rounds minute to the nearest quarter hour; 60 wraps to 0.
// Out-of-range minutes are folded into 0..59 first.
func Quantize(minute int) int {
	minute = ((minute % 60) + 60) % 60
	q := int(math.Round(float64(minute)/15)) * 15
	if q == 60 {
		return 0
	}
	return q
}

// phraseFor builds the canonical phrase. Quarter to rolls 12 over to 1.
func phraseFor(k Key) string {
	switch k.Minute {
	case 0:
		return fmt.Sprintf("The time is %d o'clock", k.Hour)
	case 15:
		return fmt.Sprintf("The time is quarter past %d", k.Hour)
	case 30:
		return fmt.Sprintf("The time is half past %d", k.Hour)
	default:
		return fmt.Sprintf("The time is quarter to %d", k.Hour%12+1)
	}
}

func foldHour(h int) int {
	h = ((h % 12) + 12) % 12
	if h == 0 {
		return 12
	}
	return h
}

func (c *MemoryCatalog) seed() {
	for _, k := range Keys() {
		c.phrases[k] = phraseFor(k)
	}
	c.log.Debug("seeded %d phrases", len(c.phrases))
}
