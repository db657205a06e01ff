// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent clock status bar and an input
// prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/talkingclock/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	alarmRingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	alarmOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	speakingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// ── Output styles (soft palette) ──

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Spoken phrases in soft sky blue.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Status lines in soft mint.
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text in light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Soft coral for errors and the alarm.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program atomic.Pointer[tea.Program]
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	source  StateSource
	done    atomic.Bool
}

// StateSource supplies the clock state shown in the status bar.
type StateSource interface {
	Snapshot() domain.ClockState
}

// NewUI creates the display. Call Run() to start.
func NewUI(source StateSource) *UI {
	return &UI{
		source:  source,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// Each argument is converted via fmt.Sprint and printed on its own
// line(s).  If the program hasn't started yet, falls back to
// fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
// The output is printed on its own line (a trailing newline in the
// format string will produce an extra blank line).
func (u *UI) Printf(format string, a ...interface{}) {
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────
// These give output visual hierarchy with lipgloss colors.

// PrintChat prints a spoken phrase.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintStatus prints a status line like "10:30  alarm 7:00 (on)".
func (u *UI) PrintStatus(text string) {
	u.Println(statusStyle.Render("  " + text))
}

// PrintInstruction prints plain body text.
func (u *UI) PrintInstruction(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line (red, bold).
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("clock") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if p := u.program.Load(); p != nil {
		p.Quit()
	}
}

// Refresh pushes a new state to the status bar without waiting for the
// next tick. Safe to call from any goroutine, before or after Run.
func (u *UI) Refresh(state domain.ClockState) {
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Send(stateMsg(state))
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Use a plain-text prompt so the textinput width math stays correct.
	// Lipgloss-styled prompts add invisible ANSI bytes that break the
	// internal offset/scroll calculations for long input.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		source:  u.source,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}
	if u.source != nil {
		m.state = u.source.Snapshot()
	}

	p := tea.NewProgram(m)
	u.program.Store(p)
	_, err := p.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

// prompt is kept unstyled; see Run.
const prompt = "clock> "

type model struct {
	source  StateSource
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback
	state   domain.ClockState
	width   int
}

// Messages.
type (
	tickMsg  time.Time
	stateMsg domain.ClockState
)

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Return a Cmd that prints the echo; it runs
				// outside Update so it won't deadlock on msgs.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		if m.source != nil {
			m.state = m.source.Snapshot()
		}
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(titleFor(m.state)))

	case stateMsg:
		m.state = domain.ClockState(msg)
		return m, tea.SetWindowTitle(titleFor(m.state))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(renderBar(m.state, m.width))
	b.WriteByte('\n')

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// titleFor is the terminal window title for a state.
func titleFor(s domain.ClockState) string {
	switch {
	case s.AlarmPlaying:
		return "Talking Clock - ALARM"
	case s.Current.Hours == 0:
		return "Talking Clock"
	default:
		return "Talking Clock - " + s.Current.String()
	}
}

// renderBar draws the status bar: dial, alarm setting, and what is playing.
func renderBar(s domain.ClockState, width int) string {
	parts := []string{clockStyle.Render(s.Current.String())}

	alarm := "alarm " + s.Alarm.String()
	switch {
	case s.AlarmPlaying:
		parts = append(parts, alarmRingStyle.Render(alarm+" RINGING"))
	case s.Armed:
		parts = append(parts, labelStyle.Render(alarm+" (on)"))
	default:
		parts = append(parts, alarmOffStyle.Render(alarm+" (off)"))
	}

	if s.DisplayText != "" {
		style := speakingStyle
		if s.AlarmPlaying {
			style = alarmRingStyle
		}
		parts = append(parts, style.Render(s.DisplayText))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

// StatusLine renders a state as plain text for the scrollback and for
// non-interactive commands.
func StatusLine(s domain.ClockState) string {
	armed := "off"
	if s.Armed {
		armed = "on"
	}
	line := fmt.Sprintf("%s  alarm %s (%s)", s.Current, s.Alarm, armed)
	switch {
	case s.AlarmPlaying && s.AnnouncementPlaying:
		line += "  [ringing, speaking]"
	case s.AlarmPlaying:
		line += "  [ringing]"
	case s.AnnouncementPlaying:
		line += "  [speaking]"
	}
	if s.DisplayText != "" {
		line += fmt.Sprintf("  %q", s.DisplayText)
	}
	return line
}
