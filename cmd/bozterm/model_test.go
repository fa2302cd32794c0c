//go:build !tinygo

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bozzard/bozos/input"
	"bozzard/hal"
)

func TestLCDText(t *testing.T) {
	got := lcdText("\x7f Play\x02 \x7e\x00")
	if got != "← Play▶ →?" {
		t.Fatalf("lcdText = %q", got)
	}
}

func TestLogTailKeepsLastLines(t *testing.T) {
	l := newLogTail(2)
	l.Write([]byte("one\ntwo\nthr"))
	l.Write([]byte("ee\nfour"))
	got := l.Lines()
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Fatalf("Lines() = %q", got)
	}
}

func TestKeysDrivePanel(t *testing.T) {
	t.Setenv("BOZ_EEPROM_PATH", "")
	h := hal.NewHost(hal.HostConfig{
		EEPROMPath: filepath.Join(t.TempDir(), "t.eeprom"),
		Log:        &bytes.Buffer{},
	})
	defer h.Close()

	steps := 0
	m := newModel(h, func() error { steps++; return nil }, newLogTail(logLines), time.Millisecond)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if pressed, _ := h.Buttons().Level(input.Buzzer2); !pressed {
		t.Fatal("key 3 should press buzzer 2")
	}

	_, cmd := next.Update(tickMsg(time.Now()))
	if steps != 1 || cmd == nil {
		t.Fatalf("tick: steps=%d cmd=%v", steps, cmd)
	}

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}

	view := next.View()
	if !strings.Contains(view, "Bozzard") || !strings.Contains(view, "tone -") {
		t.Fatalf("view:\n%s", view)
	}
}
