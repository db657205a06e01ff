package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/speech"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// simulate replays the schedule on a manual clock instead of only printing it.
var simulate bool

// sequenceCmd prints the tone schedule for a text.
var sequenceCmd = &cobra.Command{
	Use:   "sequence <text>",
	Short: "Print the tone schedule for a text.",
	Long: `Prints the tones the clock would play to speak <text>, one per
non-space character, with their offsets, frequencies and durations.

With --simulate the schedule is also played on a virtual clock against a
silent device and every voice start and stop is printed with its time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		text := args[0]

		printSchedule(out, text)
		if !simulate {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closeLog := newLogger(cfg)
		defer closeLog()

		fmt.Fprintln(out)
		runSimulation(out, text, log)
		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	sequenceCmd.Flags().BoolVar(&simulate, "simulate", false, "replay the schedule on a virtual clock")
}

func printSchedule(out io.Writer, text string) {
	runes := []rune(text)
	tones := speech.Compose(text)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "char", "code", "offset", "freq (Hz)", "duration")
	for _, st := range tones {
		r := runes[st.Index]
		t.Row(
			strconv.Itoa(st.Index),
			strconv.QuoteRune(r),
			fmt.Sprintf("U+%04X", r),
			st.Offset.String(),
			strconv.FormatFloat(st.Tone.Frequency, 'f', 0, 64),
			st.Tone.Duration.String(),
		)
	}

	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d tones, total %s\n", len(tones), speech.TotalDuration(text))
}

// simulationEpoch is an arbitrary fixed start for the virtual clock.
var simulationEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func runSimulation(out io.Writer, text string, log *logger.Logger) {
	clock := timer.NewManual(simulationEpoch)
	at := func() time.Duration { return clock.Now().Sub(simulationEpoch) }

	dev := speech.NewSilentDevice(log,
		speech.WithStartHook(func(t domain.Tone) {
			fmt.Fprintf(out, "%10s  start %s\n", at(), t)
		}),
		speech.WithStopHook(func(t domain.Tone) {
			fmt.Fprintf(out, "%10s  stop  %s\n", at(), t)
		}),
	)

	seq, _ := speech.NewSequencer(dev, clock, log).Play(text)
	clock.Advance(seq.Duration() + time.Second)

	fmt.Fprintf(out, "started %d, live %d, done %v, pending timers %d\n",
		seq.Started(), seq.Live(), seq.Done(), clock.Pending())
}
