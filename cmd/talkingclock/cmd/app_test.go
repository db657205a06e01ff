package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/talkingclock/internal/catalog"
	"github.com/hammamikhairi/talkingclock/internal/conversation"
	"github.com/hammamikhairi/talkingclock/internal/display"
	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/engine"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/speech"
	"github.com/hammamikhairi/talkingclock/internal/storage"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

func setupApp(t *testing.T) (*cliApp, *timer.Manual) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	clock := timer.NewManual(time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC))
	dev := speech.NewSilentDevice(log)

	ctrl := engine.New(
		catalog.NewMemoryCatalog(log),
		storage.NewSessionRegistry(log, storage.WithNow(clock.Now)),
		speech.NewSequencer(dev, clock, log),
		speech.NewAlarmGenerator(dev, clock, log),
		clock,
		log,
	)
	t.Cleanup(ctrl.Close)

	return &cliApp{
		ctrl:   ctrl,
		parser: conversation.NewKeywordParser(log),
		log:    log,
		ui:     display.NewUI(ctrl),
	}, clock
}

// exec parses and runs one line, failing the test on a parse error.
func exec(t *testing.T, a *cliApp, line string) bool {
	t.Helper()
	cmd, err := a.parser.Parse(context.Background(), line)
	require.NoError(t, err)
	return a.handleCommand(cmd)
}

func TestAppCommands(t *testing.T) {
	a, clock := setupApp(t)

	require.True(t, exec(t, a, "set 6:59"))
	require.True(t, exec(t, a, "alarm 7:00"))
	require.True(t, exec(t, a, "alarm on"))
	require.False(t, a.ctrl.Snapshot().AlarmPlaying)

	require.True(t, exec(t, a, "m+"))
	snap := a.ctrl.Snapshot()
	require.Equal(t, domain.ClockTime{Hours: 7, Minutes: 0}, snap.Current)
	require.True(t, snap.AlarmPlaying)

	require.True(t, exec(t, a, "stop"))
	require.False(t, a.ctrl.Snapshot().AlarmPlaying)

	require.True(t, exec(t, a, "time"))
	require.Equal(t, "The time is 7 o'clock", a.ctrl.Snapshot().DisplayText)
	clock.Advance(3 * time.Second)
	require.Empty(t, a.ctrl.Snapshot().DisplayText)

	require.True(t, exec(t, a, "ah+ am-5"))
	require.Equal(t, domain.ClockTime{Hours: 7, Minutes: 55}, a.ctrl.Snapshot().Alarm)

	require.True(t, exec(t, a, "toggle"))
	require.False(t, a.ctrl.Snapshot().Armed)

	require.False(t, exec(t, a, "quit"))
}

func TestAppRejectsBadTimes(t *testing.T) {
	a, _ := setupApp(t)
	before := a.ctrl.Snapshot()

	a.setTime("25:00", a.ctrl.SetCurrentTime)
	a.setTime("nonsense", a.ctrl.SetAlarmTime)
	require.Equal(t, before, a.ctrl.Snapshot())
}
