package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*CLINotifier)(nil)
	_ domain.Notifier = (*DesktopNotifier)(nil)
	_ domain.Notifier = (MultiNotifier)(nil)
)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	cyan  = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to stdout with ANSI formatting.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a stdout-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a spoken phrase.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s%s%s%s", cyan, bold, message, reset)
	return nil
}

// NotifyUrgent prints an alarm in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s%s%s%s", red, bold, message, reset)
	return nil
}

// desktopTitle heads every desktop notification.
const desktopTitle = "Talking Clock"

// DesktopOption configures a DesktopNotifier.
type DesktopOption func(*DesktopNotifier)

// WithPopups replaces the functions that raise notifications. Tests use
// it to avoid touching the desktop.
func WithPopups(notify, alert func(title, message string) error) DesktopOption {
	return func(n *DesktopNotifier) {
		if notify != nil {
			n.notify = notify
		}
		if alert != nil {
			n.alert = alert
		}
	}
}

// WithAnnouncementPopups also raises a notification for every spoken
// phrase, not only for alarms.
func WithAnnouncementPopups(enabled bool) DesktopOption {
	return func(n *DesktopNotifier) {
		n.announce = enabled
	}
}

// DesktopNotifier raises system notifications through beeep. Alarms use
// an alert; announcements are only shown when enabled.
type DesktopNotifier struct {
	log      *logger.Logger
	notify   func(title, message string) error
	alert    func(title, message string) error
	announce bool
}

// NewDesktopNotifier creates a desktop notifier.
func NewDesktopNotifier(log *logger.Logger, opts ...DesktopOption) *DesktopNotifier {
	n := &DesktopNotifier{
		log:    log,
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows an announcement if announcement pop-ups are enabled.
func (n *DesktopNotifier) Notify(ctx context.Context, message string) error {
	if !n.announce {
		return nil
	}
	if err := n.notify(desktopTitle, message); err != nil {
		return fmt.Errorf("desktop notify: %w", err)
	}
	return nil
}

// NotifyUrgent raises an alert for the alarm.
func (n *DesktopNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("desktop alert: %s", message)
	if err := n.alert(desktopTitle, message); err != nil {
		return fmt.Errorf("desktop alert: %w", err)
	}
	return nil
}

// MultiNotifier delivers every message to each notifier in turn. A failing
// notifier does not stop the rest; their errors are joined.
type MultiNotifier []domain.Notifier

// Notify fans the message out.
func (m MultiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyUrgent fans the urgent message out.
func (m MultiNotifier) NotifyUrgent(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyUrgent(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
