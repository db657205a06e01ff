package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"off":     LevelOff,
		"quiet":   LevelOff,
		"info":    LevelNormal,
		"warn":    LevelNormal,
		"debug":   LevelVerbose,
		"VERBOSE": LevelVerbose,
		" info ":  LevelNormal,
	}
	for s, want := range cases {
		got, ok := ParseLevel(s)
		require.True(t, ok, s)
		require.Equal(t, want, got, s)
	}

	_, ok := ParseLevel("loud")
	require.False(t, ok)
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown 2")

	log.SetLevel(LevelVerbose)
	require.Equal(t, LevelVerbose, log.GetLevel())
	log.Debug("now visible")
	require.Contains(t, buf.String(), "now visible")

	log.SetLevel(LevelOff)
	require.Equal(t, LevelOff, log.GetLevel())
	before := buf.Len()
	log.Error("silenced")
	require.Equal(t, before, buf.Len())
}
