package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

func setupCatalog(t *testing.T) *MemoryCatalog {
	t.Helper()
	return NewMemoryCatalog(logger.New(logger.LevelOff, nil))
}

func TestCatalogIsComplete(t *testing.T) {
	c := setupCatalog(t)
	require.Equal(t, 48, c.Len())

	seen := make(map[string]bool)
	for _, k := range Keys() {
		p, err := c.Lookup(k.Hour, k.Minute)
		require.NoError(t, err, k.String())
		require.NotEmpty(t, p)
		require.False(t, seen[p], "duplicate phrase %q", p)
		seen[p] = true
	}
}

func TestCatalogPhrases(t *testing.T) {
	c := setupCatalog(t)

	tests := []struct {
		hour, minute int
		want         string
	}{
		{10, 0, "The time is 10 o'clock"},
		{10, 15, "The time is quarter past 10"},
		{10, 30, "The time is half past 10"},
		{10, 45, "The time is quarter to 11"},
		{12, 45, "The time is quarter to 1"},
		{11, 45, "The time is quarter to 12"},
		{1, 0, "The time is 1 o'clock"},
		{12, 30, "The time is half past 12"},
	}
	for _, tt := range tests {
		t.Run(Key{tt.hour, tt.minute}.String(), func(t *testing.T) {
			got, err := c.Lookup(tt.hour, tt.minute)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLookupMiss(t *testing.T) {
	c := setupCatalog(t)

	for _, k := range []Key{{0, 0}, {13, 0}, {10, 37}, {10, 60}, {-1, 15}} {
		_, err := c.Lookup(k.Hour, k.Minute)
		require.ErrorIs(t, err, domain.ErrCatalogMiss, k.String())
	}
}

func TestQuantize(t *testing.T) {
	tests := map[int]int{
		0: 0, 7: 0, 8: 15, 15: 15, 22: 15, 23: 30,
		37: 30, 38: 45, 45: 45, 52: 45, 53: 0, 59: 0,
		60: 0, -1: 0, 75: 15,
	}
	for in, want := range tests {
		require.Equal(t, want, Quantize(in), "Quantize(%d)", in)
	}
}

func TestPhraseNormalizes(t *testing.T) {
	c := setupCatalog(t)

	require.Equal(t, "The time is half past 10", c.Phrase(10, 37))
	require.Equal(t, "The time is 10 o'clock", c.Phrase(10, 53), "minute rounds to 60 and keeps the hour")
	require.Equal(t, "The time is quarter to 1", c.Phrase(12, 44))
	require.Equal(t, "The time is quarter past 12", c.Phrase(0, 15))
	require.Equal(t, "The time is 1 o'clock", c.Phrase(13, 0))
}

func TestPhraseFallback(t *testing.T) {
	c := setupCatalog(t)

	require.NoError(t, c.Remove(12, 45))
	require.ErrorIs(t, c.Remove(12, 45), domain.ErrNotFound)

	_, err := c.Lookup(12, 45)
	require.ErrorIs(t, err, domain.ErrCatalogMiss)
	require.Equal(t, FallbackPhrase, c.Phrase(12, 45))
	require.Equal(t, FallbackPhrase, c.Phrase(12, 47))
}
