// Package conversation provides command parsing and user notification implementations.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// maxRepeat caps how many presses one knob command may carry ("m+30").
const maxRepeat = 720

// KeywordParser matches user input to commands using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// knobPattern matches one knob press with an optional repeat count:
// "h+", "m-", "ah+", "am-5".
var knobPattern = regexp.MustCompile(`(?i)^(a?)([hm])([+-])(\d*)$`)

// setPattern matches "set 7:05" and "alarm 7:05".
var setPattern = regexp.MustCompile(`(?i)^(set|alarm)\s+(\d{1,2}:\d{2})$`)

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(announce|a|time|t|what time is it\??)$`), domain.CommandAnnounce},
		{regexp.MustCompile(`(?i)^(alarm on|arm)$`), domain.CommandArm},
		{regexp.MustCompile(`(?i)^(alarm off|disarm)$`), domain.CommandDisarm},
		{regexp.MustCompile(`(?i)^(toggle|alarm)$`), domain.CommandToggleAlarm},
		{regexp.MustCompile(`(?i)^(stop|silence|snooze|hush)$`), domain.CommandSilence},
		{regexp.MustCompile(`(?i)^(status|s|info)$`), domain.CommandStatus},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
	}
	return p
}

// Parse converts user input into a command. Malformed times come back as
// ErrInvalidTimeValue; anything unrecognized is CommandUnknown.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched command: %s", rule.command)
			return &domain.Command{Type: rule.command}, nil
		}
	}

	if m := setPattern.FindStringSubmatch(trimmed); m != nil {
		if _, err := domain.ParseClockTime(m[2]); err != nil {
			return nil, err
		}
		typ := domain.CommandSetTime
		if strings.EqualFold(m[1], "alarm") {
			typ = domain.CommandSetAlarm
		}
		return &domain.Command{Type: typ, Payload: m[2]}, nil
	}

	if cmd, ok, err := p.parseKnobs(trimmed); ok || err != nil {
		return cmd, err
	}

	p.log.Debug("no command matched for: %q", trimmed)
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}

// parseKnobs handles one or more space-separated knob presses. All presses
// in one line must target the same dial.
func (p *KeywordParser) parseKnobs(input string) (*domain.Command, bool, error) {
	var (
		adjs  []domain.Adjustment
		alarm bool
	)
	for i, word := range strings.Fields(input) {
		m := knobPattern.FindStringSubmatch(word)
		if m == nil {
			return nil, false, nil
		}
		isAlarm := m[1] != ""
		if i > 0 && isAlarm != alarm {
			return nil, false, fmt.Errorf("mixed clock and alarm adjustments in %q", input)
		}
		alarm = isAlarm

		n := 1
		if m[4] != "" {
			v, err := strconv.Atoi(m[4])
			if err != nil || v < 1 || v > maxRepeat {
				return nil, false, fmt.Errorf("repeat count %q outside 1..%d", m[4], maxRepeat)
			}
			n = v
		}

		adj := knob(strings.ToLower(m[2]), m[3])
		for j := 0; j < n; j++ {
			adjs = append(adjs, adj)
		}
	}

	typ := domain.CommandAdjustTime
	if alarm {
		typ = domain.CommandAdjustAlarm
	}
	return &domain.Command{Type: typ, Adjustments: adjs}, true, nil
}

func knob(unit, dir string) domain.Adjustment {
	switch {
	case unit == "h" && dir == "+":
		return domain.IncrementHour
	case unit == "h":
		return domain.DecrementHour
	case dir == "+":
		return domain.IncrementMinute
	default:
		return domain.DecrementMinute
	}
}

// HelpText lists the commands the parser understands.
const HelpText = `commands:
  announce, a, time, t   speak the time
  alarm on | alarm off   arm or disarm the alarm
  toggle, alarm          flip the alarm
  stop, silence          silence whatever is playing
  h+ h- m+ m-            adjust the clock (m+15 repeats)
  ah+ ah- am+ am-        adjust the alarm
  set H:MM               set the clock
  alarm H:MM             set the alarm
  status, s              show the clock state
  help, ?                this text
  quit, q, exit          leave`
