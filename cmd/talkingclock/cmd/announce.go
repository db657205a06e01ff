package cmd

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/engine"
)

var errBusy = errors.New("clock is busy")

// announceCmd speaks one announcement and exits.
var announceCmd = &cobra.Command{
	Use:   "announce [H:MM]",
	Short: "Speak the time once and exit.",
	Long: `Speaks the given time, or the current wall-clock time, rounded to the
nearest quarter hour. Exits when the announcement ends.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		at := domain.FromWallClock(time.Now())
		if len(args) > 0 {
			t, err := domain.ParseClockTime(args[0])
			if err != nil {
				return err
			}
			at = t
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		listener, idle := idleSignal()
		ctrl := env.newController(
			env.notifier(writerNotifier(env.log, cmd.OutOrStdout())),
			engine.WithStartTime(at),
			engine.WithAlarm(env.cfg.Alarm(), false),
			engine.WithStateListener(listener),
		)
		defer ctrl.Close()

		if !ctrl.RequestAnnouncement() {
			return errBusy
		}
		return waitIdle(ctx, ctrl, idle)
	},
}
