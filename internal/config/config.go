package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Config holds the clock's settings.
type Config struct {
	// LogLevel is one of off, info, debug (see logger.ParseLevel).
	LogLevel string `yaml:"log_level"`
	// LogFile receives the log; "stderr" logs to the console.
	LogFile string `yaml:"log_file"`
	// Sound plays tones on the audio device. When false a silent device is used.
	Sound bool `yaml:"sound"`
	// DesktopNotify raises a desktop alert when the alarm rings.
	DesktopNotify bool `yaml:"desktop_notify"`
	// SyncWallClock keeps the dial on the host's wall clock.
	SyncWallClock bool `yaml:"sync_wall_clock"`
	// TickInterval is how often the dial is resynchronized.
	TickInterval time.Duration `yaml:"tick_interval"`
	// AnnouncementHold is how long an announcement session lasts.
	AnnouncementHold time.Duration `yaml:"announcement_hold"`
	// AlarmHold is how long the alarm rings before stopping by itself.
	AlarmHold time.Duration `yaml:"alarm_hold"`
	// AlarmInterval is the spacing between alarm tones.
	AlarmInterval time.Duration `yaml:"alarm_interval"`
	// StartTime is the dial position when not synced, as "H:MM".
	StartTime string `yaml:"start_time"`
	// AlarmTime is the alarm setting, as "H:MM".
	AlarmTime string `yaml:"alarm_time"`
	// AlarmArmed arms the alarm at start-up.
	AlarmArmed bool `yaml:"alarm_armed"`
}

const (
	// DefaultConfigFilename is the default filename for clock settings.
	DefaultConfigFilename = "talkingclock.yaml"

	// DefaultLogFile keeps the log out of the terminal UI.
	DefaultLogFile = ".talkingclock/talkingclock.log"

	// DefaultTickInterval is how often the wall clock is sampled.
	DefaultTickInterval = time.Second

	// DefaultAnnouncementHold is the fixed length of an announcement session.
	DefaultAnnouncementHold = 3 * time.Second

	// DefaultAlarmHold is the fixed length of an alarm session.
	DefaultAlarmHold = 5 * time.Second

	// DefaultAlarmInterval is the spacing between alarm tones.
	DefaultAlarmInterval = 350 * time.Millisecond

	// DefaultStartTime is the dial position before the first sync.
	DefaultStartTime = "10:30"

	// DefaultAlarmTime is the initial alarm setting.
	DefaultAlarmTime = "7:00"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		LogFile:          DefaultLogFile,
		Sound:            true,
		SyncWallClock:    true,
		TickInterval:     DefaultTickInterval,
		AnnouncementHold: DefaultAnnouncementHold,
		AlarmHold:        DefaultAlarmHold,
		AlarmInterval:    DefaultAlarmInterval,
		StartTime:        DefaultStartTime,
		AlarmTime:        DefaultAlarmTime,
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills unset durations and times with
// their defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if _, ok := logger.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.AnnouncementHold <= 0 {
		cfg.AnnouncementHold = DefaultAnnouncementHold
	}
	if cfg.AlarmHold <= 0 {
		cfg.AlarmHold = DefaultAlarmHold
	}
	if cfg.AlarmInterval <= 0 {
		cfg.AlarmInterval = DefaultAlarmInterval
	}

	if cfg.StartTime == "" {
		cfg.StartTime = DefaultStartTime
	}
	if cfg.AlarmTime == "" {
		cfg.AlarmTime = DefaultAlarmTime
	}
	if _, err := domain.ParseClockTime(cfg.StartTime); err != nil {
		return fmt.Errorf("invalid start_time: %w", err)
	}
	if _, err := domain.ParseClockTime(cfg.AlarmTime); err != nil {
		return fmt.Errorf("invalid alarm_time: %w", err)
	}

	return nil
}

// Start returns the parsed start time. Call after Validate.
func (c *Config) Start() domain.ClockTime {
	t, _ := domain.ParseClockTime(c.StartTime)
	return t
}

// Alarm returns the parsed alarm time. Call after Validate.
func (c *Config) Alarm() domain.ClockTime {
	t, _ := domain.ParseClockTime(c.AlarmTime)
	return t
}

// Level returns the parsed log level, LevelNormal if it cannot be parsed.
func (c *Config) Level() logger.Level {
	if l, ok := logger.ParseLevel(c.LogLevel); ok {
		return l
	}
	return logger.LevelNormal
}
