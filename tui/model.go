// Package tui is the terminal face of the alarm clock: a live clock, the
// alarm form and the snooze/stop prompt.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bsid.es/despertador"
	tea "github.com/charmbracelet/bubbletea"
)

type field int

const (
	fieldHour field = iota
	fieldMinute
	fieldTone
	fieldSnooze
	numFields
)

var fieldLabels = [numFields]string{
	fieldHour:   "Hour",
	fieldMinute: "Minute",
	fieldTone:   "Alarm tone",
	fieldSnooze: "Snooze (minutes)",
}

// Options prefill the form.
type Options struct {
	Hour, Minute string
	Tones        []string
	Tone         string
	Snooze       int // minutes
}

// Model implements tea.Model.
type Model struct {
	ctx   context.Context
	clock despertador.AlarmClock
	now   func() time.Time

	sub    despertador.Subscription
	status despertador.Status

	hour, minute string
	tones        []string
	tone         int
	snooze       int
	focus        field

	message string
	failed  bool
}

func New(ctx context.Context, clock despertador.AlarmClock, opts Options) *Model {
	m := &Model{
		ctx:    ctx,
		clock:  clock,
		now:    time.Now,
		status: clock.Status(),
		hour:   "00",
		minute: "00",
		tones:  opts.Tones,
		snooze: int(despertador.DefaultSnooze / time.Minute),
	}
	if opts.Hour != "" {
		m.hour = opts.Hour
	}
	if opts.Minute != "" {
		m.minute = opts.Minute
	}
	for i, t := range m.tones {
		if t == opts.Tone {
			m.tone = i
		}
	}
	if opts.Snooze != 0 {
		m.snooze = clamp(opts.Snooze)
	}
	m.sub = clock.Subscribe(ctx)
	return m
}

type (
	tickMsg    time.Time
	noticeMsg  despertador.Notice
	droppedMsg struct{}
	armMsg     struct{}
)

// Arm returns a message that arms the alarm with the current form values,
// for starting the program with the alarm already set.
func Arm() tea.Msg { return armMsg{} }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitNotice())
}

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) waitNotice() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		n, ok := <-sub.C()
		if !ok {
			return droppedMsg{}
		}
		return noticeMsg(n)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()

	case noticeMsg:
		m.status = m.clock.Status()
		if msg.Kind == despertador.NoticeRinging {
			m.setMessage("", false)
		}
		return m, m.waitNotice()

	case droppedMsg:
		m.sub = m.clock.Subscribe(m.ctx)
		m.status = m.clock.Status()
		return m, m.waitNotice()

	case armMsg:
		m.arm()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		m.stop()
		m.sub.Close()
		return m, tea.Quit
	}

	if m.status.State == despertador.StateRinging {
		switch key {
		case "s":
			m.snoozeAlarm()
		case "x", "esc":
			m.stop()
		}
		return m, nil
	}

	switch key {
	case "tab", "down":
		m.focus = (m.focus + 1) % numFields
	case "shift+tab", "up":
		m.focus = (m.focus + numFields - 1) % numFields
	case "left":
		m.adjust(-1)
	case "right":
		m.adjust(+1)
	case "backspace":
		m.edit(func(s string) string {
			if s == "" {
				return s
			}
			return s[:len(s)-1]
		})
	case "enter":
		m.arm()
	case "esc":
		m.stop()
	default:
		if msg.Type == tea.KeyRunes && digits(msg.Runes) {
			m.edit(func(s string) string {
				if len(s) >= 2 {
					// Start over, like an overwriting entry.
					return string(msg.Runes)
				}
				return s + string(msg.Runes)
			})
		}
	}
	return m, nil
}

// edit changes the focused text field.
func (m *Model) edit(f func(string) string) {
	switch m.focus {
	case fieldHour:
		m.hour = f(m.hour)
	case fieldMinute:
		m.minute = f(m.minute)
	}
}

// adjust moves the focused selector.
func (m *Model) adjust(delta int) {
	switch m.focus {
	case fieldTone:
		if n := len(m.tones); n > 0 {
			m.tone = (m.tone + delta + n) % n
		}
	case fieldSnooze:
		m.snooze = clamp(m.snooze + delta)
	}
}

func (m *Model) arm() {
	hour, minute, err := despertador.ParseAlarmTime(m.hour, m.minute)
	if err != nil {
		m.setMessage("Invalid Input: "+despertador.ErrorDescription(err), true)
		return
	}
	var tone string
	if len(m.tones) > 0 {
		tone = m.tones[m.tone]
	}
	target, err := m.clock.Arm(m.ctx, despertador.Alarm{
		Hour:   hour,
		Minute: minute,
		Tone:   tone,
		Snooze: time.Duration(m.snooze) * time.Minute,
	})
	if err != nil {
		title := "Invalid Input"
		if despertador.ErrorCode(err) == despertador.ErrNotFound {
			title = "Tone Missing"
		}
		m.setMessage(title+": "+despertador.ErrorDescription(err), true)
		return
	}
	m.status = m.clock.Status()
	m.setMessage("Alarm set for "+target.Format("15:04"), false)
}

func (m *Model) snoozeAlarm() {
	target, err := m.clock.Snooze(m.ctx)
	if err != nil {
		m.setMessage(despertador.ErrorDescription(err), true)
		return
	}
	m.status = m.clock.Status()
	m.setMessage("Snoozed until "+target.Format("15:04"), false)
}

func (m *Model) stop() {
	if err := m.clock.Stop(m.ctx); err != nil {
		m.setMessage(despertador.ErrorDescription(err), true)
		return
	}
	if m.status.Active() {
		m.setMessage("Alarm stopped", false)
	}
	m.status = m.clock.Status()
}

func (m *Model) setMessage(msg string, failed bool) {
	m.message = msg
	m.failed = failed
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString("\n  Alarm Clock\n\n")
	fmt.Fprintf(&b, "    ( %s )\n\n", m.now().Format("15:04:05"))

	if m.status.State == despertador.StateRinging {
		b.WriteString("  ┌──────────────────────────────┐\n")
		b.WriteString("  │         🔔 Wake Up!          │\n")
		b.WriteString("  │   [s] Snooze     [x] Stop    │\n")
		b.WriteString("  └──────────────────────────────┘\n")
		return b.String()
	}

	values := [numFields]string{
		fieldHour:   m.hour,
		fieldMinute: m.minute,
		fieldTone:   "◀ " + m.toneName() + " ▶",
		fieldSnooze: "◀ " + strconv.Itoa(m.snooze) + " ▶",
	}
	for f := field(0); f < numFields; f++ {
		cursor := "  "
		if f == m.focus {
			cursor = "> "
		}
		fmt.Fprintf(&b, "  %s%-17s %s\n", cursor, fieldLabels[f]+":", values[f])
	}
	b.WriteString("\n")

	switch m.status.State {
	case despertador.StateArmed:
		fmt.Fprintf(&b, "  Alarm armed for %s (%s)\n", m.status.Target.Format("Mon 15:04"), m.status.Tone)
	default:
		b.WriteString("  No alarm set\n")
	}
	if m.message != "" {
		prefix := "  "
		if m.failed {
			prefix = "  ✗ "
		}
		b.WriteString(prefix + m.message + "\n")
	}
	b.WriteString("\n  tab: next field • ←/→: change • enter: set alarm • esc: stop alarm • q: quit\n")
	return b.String()
}

func (m *Model) toneName() string {
	if len(m.tones) == 0 {
		return "(none)"
	}
	return m.tones[m.tone]
}

func clamp(minutes int) int {
	lo, hi := int(despertador.MinSnooze/time.Minute), int(despertador.MaxSnooze/time.Minute)
	switch {
	case minutes < lo:
		return lo
	case minutes > hi:
		return hi
	}
	return minutes
}

func digits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}
