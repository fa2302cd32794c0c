//go:build !tinygo

package main

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bozzard/bozos/display"
	"bozzard/bozos/input"
	"bozzard/hal"
)

const logLines = 6

var (
	lcdLit   = lipgloss.Color("#B6E35A")
	lcdDark  = lipgloss.Color("#3C4A26")
	lcdInk   = lipgloss.Color("#14200A")
	ledOn    = lipgloss.Color("#FF4040")
	ledOff   = lipgloss.Color("#502020")
	mutedTxt = lipgloss.Color("#8CA1AE")
)

var (
	lcdStyle = lipgloss.NewStyle().
		Foreground(lcdInk).
		Background(lcdLit).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lcdDark).
		Padding(0, 1)

	lcdOffStyle = lcdStyle.
		Foreground(lcdLit).
		Background(lcdDark)

	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(mutedTxt)
	logStyle   = lipgloss.NewStyle().Foreground(mutedTxt).Faint(true)
)

// glyphs stands in for the default custom characters and the ROM arrows.
var glyphs = map[byte]rune{
	display.CharBack:    '↩',
	display.CharPlay:    '▶',
	display.CharHBar:    '─',
	display.CharReset:   '■',
	display.CharWheelAC: '↺',
	display.CharWheelC:  '↻',
	display.ArrowRight:  '→',
	display.ArrowLeft:   '←',
}

var keyButtons = map[string]input.Button{
	"1":     input.Buzzer0,
	"2":     input.Buzzer1,
	"3":     input.Buzzer2,
	"4":     input.Buzzer3,
	" ":     input.Play,
	"p":     input.Play,
	"y":     input.Yellow,
	"r":     input.Reset,
	"enter": input.RotaryKey,
}

type tickMsg time.Time

type model struct {
	h     *hal.Host
	step  func() error
	logs  *logTail
	every time.Duration
	err   error
}

func newModel(h *hal.Host, step func() error, logs *logTail, every time.Duration) model {
	return model{h: h, step: step, logs: logs, every: every}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.h.Panel().Update()
		if err := m.step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "down":
			m.h.Panel().Turn(false)
		case "right", "up":
			m.h.Panel().Turn(true)
		default:
			if b, ok := keyButtons[key]; ok {
				m.h.Panel().Tap(b)
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	scr := m.h.Screen()
	rows := make([]string, display.Rows)
	for r := range rows {
		rows[r] = lcdText(scr.Row(r))
	}
	style := lcdStyle
	if !scr.Backlight() {
		style = lcdOffStyle
	}
	lcd := style.Render(strings.Join(rows, "\n"))

	status := fmt.Sprintf("%s  tone %s", ledText(m.h.LEDMask()), toneText(m.h.Tone()))
	if m.h.Sleeping() {
		status += "  zz"
	}
	help := helpStyle.Render("1-4 buzzers  space play  y yellow  r reset  ←/→ knob  enter press  q quit")

	parts := []string{titleStyle.Render("Bozzard"), lcd, status, help}
	if lines := m.logs.Lines(); len(lines) > 0 {
		parts = append(parts, logStyle.Render(strings.Join(lines, "\n")))
	}
	if m.err != nil {
		parts = append(parts, m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// lcdText maps controller character codes to something a terminal can show.
func lcdText(row string) string {
	var b strings.Builder
	for i := 0; i < len(row); i++ {
		c := row[i]
		switch r, ok := glyphs[c]; {
		case ok:
			b.WriteRune(r)
		case c < 0x20 || c > 0x7E:
			b.WriteByte('?')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func ledText(mask uint8) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		on := mask&(1<<i) != 0
		color := ledOff
		if on {
			color = ledOn
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render("●"))
	}
	return b.String()
}

func toneText(hz uint16) string {
	if hz == 0 {
		return "-"
	}
	return fmt.Sprintf("%dHz", hz)
}

// logTail keeps the last few log lines for the status area.
type logTail struct {
	mu    sync.Mutex
	max   int
	lines []string
	part  []byte
}

func newLogTail(max int) *logTail { return &logTail{max: max} }

func (l *logTail) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.part = append(l.part, p...)
	for {
		i := bytes.IndexByte(l.part, '\n')
		if i < 0 {
			break
		}
		l.lines = append(l.lines, string(l.part[:i]))
		l.part = l.part[i+1:]
	}
	if n := len(l.lines) - l.max; n > 0 {
		l.lines = append(l.lines[:0], l.lines[n:]...)
	}
	return len(p), nil
}

func (l *logTail) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}
