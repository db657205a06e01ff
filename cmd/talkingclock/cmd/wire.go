package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/talkingclock/internal/catalog"
	"github.com/hammamikhairi/talkingclock/internal/config"
	"github.com/hammamikhairi/talkingclock/internal/conversation"
	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/engine"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/speech"
	"github.com/hammamikhairi/talkingclock/internal/storage"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// environment is everything a command needs, built once from flags and config.
type environment struct {
	cfg      *config.Config
	log      *logger.Logger
	device   speech.Device
	sched    timer.Scheduler
	closeLog func()
}

func setup(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closeLog := newLogger(cfg)

	var device speech.Device
	if cfg.Sound {
		device = speech.NewOtoDevice(log)
	} else {
		device = speech.NewSilentDevice(log)
		log.Info("sound disabled, using the silent device")
	}

	return &environment{
		cfg:      cfg,
		log:      log,
		device:   device,
		sched:    timer.NewWall(),
		closeLog: closeLog,
	}, nil
}

func (e *environment) close() {
	e.closeLog()
}

// notifier wraps text with a desktop notifier when enabled.
func (e *environment) notifier(text domain.Notifier) domain.Notifier {
	if !e.cfg.DesktopNotify {
		return text
	}
	return conversation.MultiNotifier{text, conversation.NewDesktopNotifier(e.log)}
}

// newController wires the catalog, session registry, sequencer and alarm
// generator into a controller configured from e.cfg. opts are applied last.
func (e *environment) newController(notifier domain.Notifier, opts ...engine.Option) *engine.Controller {
	base := []engine.Option{
		engine.WithAnnouncementHold(e.cfg.AnnouncementHold),
		engine.WithAlarmHold(e.cfg.AlarmHold),
		engine.WithStartTime(e.cfg.Start()),
		engine.WithAlarm(e.cfg.Alarm(), e.cfg.AlarmArmed),
		engine.WithNotifier(notifier),
	}

	return engine.New(
		catalog.NewMemoryCatalog(e.log),
		storage.NewSessionRegistry(e.log, storage.WithNow(e.sched.Now)),
		speech.NewSequencer(e.device, e.sched, e.log),
		speech.NewAlarmGenerator(e.device, e.sched, e.log, speech.WithAlarmInterval(e.cfg.AlarmInterval)),
		e.sched,
		e.log,
		append(base, opts...)...,
	)
}

// writerNotifier prints notifications to w.
func writerNotifier(log *logger.Logger, w io.Writer) domain.Notifier {
	return conversation.NewCLINotifier(log, func(format string, a ...interface{}) {
		fmt.Fprintf(w, format+"\n", a...)
	})
}

// idleSignal returns a state listener that pokes ch whenever nothing is
// playing, and the channel itself.
func idleSignal() (func(domain.ClockState), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func(s domain.ClockState) {
		if s.Playing() {
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// waitIdle blocks until ctrl has nothing playing or ctx ends. A stale
// signal only causes a re-check.
func waitIdle(ctx context.Context, ctrl *engine.Controller, idle <-chan struct{}) error {
	for ctrl.Snapshot().Playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
		}
	}
	return nil
}
