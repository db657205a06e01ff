package cmd

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/talkingclock/internal/config"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/version"
)

// Environment overrides, read after .env is loaded.
const (
	envConfig   = "TALKINGCLOCK_CONFIG"
	envLogLevel = "TALKINGCLOCK_LOG_LEVEL"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the config.
	logLevel string
	// logFile overrides log_file from the config.
	logFile string
	// noSound plays on the silent device.
	noSound bool
	// desktopNotify raises desktop alerts for the alarm.
	desktopNotify bool
	// noSync stops the dial from following the wall clock.
	noSync bool

	// rootCmd runs the interactive clock.
	rootCmd = &cobra.Command{
		Use:   "talkingclock",
		Short: "A talking alarm clock for the terminal.",
		Long: `Runs a talking alarm clock in the terminal.

The clock follows the wall clock, speaks the time to the nearest quarter hour
as a sequence of tones, and rings an alarm when the armed alarm time is
reached. Type 'help' at the prompt for commands.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			return runInteractive(ctx, env)
		},
	}
)

// Execute runs the talkingclock CLI and exits with non-zero status on error.
func Execute() {
	// A missing .env is fine.
	_ = godotenv.Load()

	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&logLevel, "log-level", "", "log level: off, info, debug (overrides config)")
	flags.StringVar(&logFile, "log-file", "", "file to write logs to, \"stderr\" for the console (overrides config)")
	flags.BoolVar(&noSound, "no-sound", false, "do not open the audio device")
	flags.BoolVar(&desktopNotify, "desktop-notify", false, "raise a desktop alert when the alarm rings")
	flags.BoolVar(&noSync, "no-sync", false, "do not follow the wall clock")

	rootCmd.AddCommand(announceCmd, alarmCmd, sequenceCmd)
}

// loadConfig applies, in order: the config file, environment overrides,
// then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if env := os.Getenv(envConfig); env != "" && !cmd.Flags().Changed("config") {
		path = env
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if env := os.Getenv(envLogLevel); env != "" {
		cfg.LogLevel = env
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if noSound {
		cfg.Sound = false
	}
	if desktopNotify {
		cfg.DesktopNotify = true
	}
	if noSync {
		cfg.SyncWallClock = false
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLog directs logs to a file by default so the terminal UI stays
// clean. The returned func closes the file.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { _ = f.Close() }
}

// newLogger builds the process logger and points the standard library
// logger (used by some dependencies) at the same output.
func newLogger(cfg *config.Config) (*logger.Logger, func()) {
	out, closeFn := openLog(cfg.LogFile)

	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.Level(), out)
	return log, func() {
		_ = log.Sync()
		closeFn()
	}
}
