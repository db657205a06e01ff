package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/talkingclock/internal/conversation"
	"github.com/hammamikhairi/talkingclock/internal/display"
	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/engine"
	"github.com/hammamikhairi/talkingclock/internal/logger"
	"github.com/hammamikhairi/talkingclock/internal/timer"
)

// snapshotFunc adapts a function to display.StateSource.
type snapshotFunc func() domain.ClockState

func (f snapshotFunc) Snapshot() domain.ClockState { return f() }

// runInteractive runs the terminal UI until the user quits or ctx ends.
func runInteractive(ctx context.Context, env *environment) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The UI and the controller refer to each other; ctrl is set before
	// anything can call back.
	var ctrl *engine.Controller
	ui := display.NewUI(snapshotFunc(func() domain.ClockState { return ctrl.Snapshot() }))
	textNotifier := conversation.NewCLINotifier(env.log, ui.Printf)

	ctrl = env.newController(env.notifier(textNotifier), engine.WithStateListener(ui.Refresh))
	defer ctrl.Close()

	if env.cfg.SyncWallClock {
		supervisor := timer.New(ctrl, env.log, timer.WithTickInterval(env.cfg.TickInterval))
		supervisor.Start(ctx)
		defer supervisor.Stop()
	}

	app := &cliApp{
		ctrl:   ctrl,
		parser: conversation.NewKeywordParser(env.log),
		log:    env.log,
		ui:     ui,
		synced: env.cfg.SyncWallClock,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		env.log.Error("display: %v", err)
		return err
	}
	return nil
}

type cliApp struct {
	ctrl   *engine.Controller
	parser domain.CommandParser
	log    *logger.Logger
	ui     *display.UI
	synced bool // dial follows the wall clock
}

func (a *cliApp) run(ctx context.Context) {
	a.status()

	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.ui.PrintUrgent(err.Error())
			continue
		}

		a.log.Debug("command: %s (payload=%q, adjustments=%d)", cmd.Type, cmd.Payload, len(cmd.Adjustments))
		if !a.handleCommand(cmd) {
			return
		}
	}
}

// handleCommand executes one command. It returns false when the user quits.
func (a *cliApp) handleCommand(cmd *domain.Command) bool {
	switch cmd.Type {
	case domain.CommandAnnounce:
		if !a.ctrl.RequestAnnouncement() {
			a.ui.PrintHint("Already playing, try again in a moment.")
		}
	case domain.CommandArm:
		a.ctrl.SetAlarmArmed(true)
		a.status()
	case domain.CommandDisarm:
		a.ctrl.SetAlarmArmed(false)
		a.status()
	case domain.CommandToggleAlarm:
		a.ctrl.ToggleAlarm()
		a.status()
	case domain.CommandSilence:
		a.ctrl.StopAnnouncement()
		a.ctrl.StopAlarm()
	case domain.CommandAdjustTime:
		a.ctrl.AdjustCurrentTime(cmd.Adjustments...)
		a.syncHint()
		a.status()
	case domain.CommandAdjustAlarm:
		a.ctrl.AdjustAlarmTime(cmd.Adjustments...)
		a.status()
	case domain.CommandSetTime:
		a.setTime(cmd.Payload, a.ctrl.SetCurrentTime)
		a.syncHint()
	case domain.CommandSetAlarm:
		a.setTime(cmd.Payload, a.ctrl.SetAlarmTime)
	case domain.CommandStatus:
		a.status()
	case domain.CommandHelp:
		for _, line := range strings.Split(conversation.HelpText, "\n") {
			a.ui.PrintInstruction(line)
		}
	case domain.CommandQuit:
		a.ui.PrintChat("Bye.")
		return false
	default:
		a.ui.PrintHint(fmt.Sprintf("Unknown command %q, type 'help' for the list.", cmd.Payload))
	}
	return true
}

func (a *cliApp) setTime(payload string, set func(domain.ClockTime) error) {
	t, err := domain.ParseClockTime(payload)
	if err == nil {
		err = set(t)
	}
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	a.status()
}

func (a *cliApp) status() {
	a.ui.PrintStatus(display.StatusLine(a.ctrl.Snapshot()))
}

// syncHint warns that manual changes to the dial do not survive the next tick.
func (a *cliApp) syncHint() {
	if a.synced {
		a.ui.PrintHint("The clock follows the wall clock; start with --no-sync to keep manual changes.")
	}
}
