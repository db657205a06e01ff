package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/engine"
)

// alarmCmd rings the alarm once and exits.
var alarmCmd = &cobra.Command{
	Use:   "alarm",
	Short: "Ring the alarm once and exit.",
	Long:  `Rings the alarm pattern for the configured hold (alarm_hold) and exits.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		// Ring now: put the alarm on the current minute and arm it.
		now := domain.FromWallClock(time.Now())
		listener, idle := idleSignal()
		ctrl := env.newController(
			env.notifier(writerNotifier(env.log, cmd.OutOrStdout())),
			engine.WithStartTime(now),
			engine.WithAlarm(now, true),
			engine.WithStateListener(listener),
		)
		defer ctrl.Close()

		// The alarm is evaluated on mutation; a no-op adjustment triggers it.
		ctrl.AdjustCurrentTime()
		if !ctrl.Snapshot().AlarmPlaying {
			return errBusy
		}
		return waitIdle(ctx, ctrl, idle)
	},
}
