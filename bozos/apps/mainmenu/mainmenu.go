// Package mainmenu is the bootstrap app: it lists the apps flagged for the
// menu and calls the one the quiz master picks.
package mainmenu

import (
	"fmt"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
)

type menu struct {
	ctx     *kernel.Context
	entries []kernel.AppID
	names   []string
	sel     int
	status  string
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	m := &menu{ctx: ctx}
	for _, a := range ctx.Apps() {
		if a.Flags&kernel.FlagMain != 0 && a.ID != kernel.AppMainMenu {
			m.entries = append(m.entries, a.ID)
			m.names = append(m.names, a.Name)
		}
	}

	ctx.OnRotary(m.turn)
	ctx.OnRotaryPress(m.launch)
	ctx.OnPlay(m.launch)
	ctx.SetLEDs(0)
	m.draw()
}

func (m *menu) turn(clockwise bool) {
	if len(m.entries) == 0 {
		return
	}
	if clockwise {
		m.sel = (m.sel + 1) % len(m.entries)
	} else {
		m.sel = (m.sel + len(m.entries) - 1) % len(m.entries)
	}
	m.status = ""
	m.draw()
}

func (m *menu) launch() {
	if len(m.entries) == 0 {
		return
	}
	id := m.entries[m.sel]
	if err := m.ctx.Call(id, nil, m.returned); err != nil {
		m.status = "Cannot start"
		m.draw()
	}
}

func (m *menu) returned(status int) {
	m.ctx.SetLEDs(0)
	m.status = ""
	if status != 0 {
		m.status = fmt.Sprintf("Exit status %d", status)
	}
	m.draw()
}

func (m *menu) draw() {
	d := m.ctx.Display()
	if len(m.entries) == 0 {
		_ = ui.Screen(d, "Bozzard", "No apps")
		return
	}
	top := string(display.ArrowLeft) + ui.Centre(m.names[m.sel])[1:display.Columns-1] + string(display.ArrowRight)
	bottom := m.status
	if bottom == "" {
		bottom = fmt.Sprintf("%d/%d %s start", m.sel+1, len(m.entries), ui.Glyph(display.CharPlay))
	}
	_ = ui.Screen(d, top, bottom)
}
