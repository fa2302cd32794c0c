package options

import (
	"encoding/binary"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
	"bozzard/bozos/mm"
)

type editor struct {
	ctx  *kernel.Context
	menu *Menu

	// values is the working copy of Results, four bytes per page.
	values mm.Ptr

	page    int // len(menu.Pages) is the accept/discard page
	editing bool
	field   int
}

// Init is the app entry point. param must be a *Menu.
func Init(ctx *kernel.Context, param any) {
	m, ok := param.(*Menu)
	if !ok || m == nil || len(m.Pages) == 0 || len(m.Results) < len(m.Pages) {
		_ = ctx.Exit(StatusInvalid)
		return
	}
	e := &editor{ctx: ctx, menu: m}
	e.values = ctx.Alloc(4 * len(m.Pages))
	if e.values == mm.Nil {
		_ = ctx.Exit(StatusInvalid)
		return
	}
	for i := range m.Pages {
		e.set(i, m.Results[i])
	}

	e.page = e.nextPage(-1, 1)
	if m.OneShot {
		e.page = 0
		e.editing = true
	}

	ctx.OnRotary(e.turn)
	ctx.OnRotaryPress(e.press)
	ctx.OnPlay(e.accept)
	ctx.OnReset(func() { _ = ctx.Exit(StatusDiscard) })
	e.draw()
}

func (e *editor) get(i int) int32 {
	return int32(binary.LittleEndian.Uint32(e.ctx.Bytes(e.values)[4*i:]))
}

func (e *editor) set(i int, v int32) {
	binary.LittleEndian.PutUint32(e.ctx.Bytes(e.values)[4*i:], uint32(v))
}

// nextPage finds the next enabled page from `from` in direction dir. The
// accept page is always enabled.
func (e *editor) nextPage(from, dir int) int {
	n := len(e.menu.Pages)
	for p := from + dir; p >= 0 && p <= n; p += dir {
		if p == n || e.menu.enabled(p) {
			return p
		}
	}
	return from
}

func (e *editor) turn(clockwise bool) {
	if e.editing {
		p := &e.menu.Pages[e.page]
		unit := int32(1)
		if p.Type.IsClock() {
			unit = unitSeconds(clockFields(p.Type)[e.field])
		}
		e.set(e.page, adjust(p, e.get(e.page), clockwise, unit))
	} else {
		dir := 1
		if !clockwise {
			dir = -1
		}
		e.page = e.nextPage(e.page, dir)
	}
	e.draw()
}

func (e *editor) press() {
	if e.page >= len(e.menu.Pages) {
		return
	}
	p := &e.menu.Pages[e.page]
	switch {
	case !e.editing:
		e.editing, e.field = true, 0
	case p.Type.IsClock() && e.field+1 < len(clockFields(p.Type)):
		e.field++
	default:
		e.editing, e.field = false, 0
		if e.menu.OneShot {
			e.accept()
			return
		}
	}
	e.draw()
}

func (e *editor) accept() {
	for i := range e.menu.Pages {
		e.menu.Results[i] = e.get(i)
	}
	_ = e.ctx.Exit(StatusAccept)
}

func (e *editor) draw() {
	d := e.ctx.Display()
	if e.page >= len(e.menu.Pages) {
		_ = ui.Screen(d, ui.Glyph(display.CharPlay)+" accept", ui.Glyph(display.CharReset)+" discard")
		return
	}
	p := &e.menu.Pages[e.page]
	_ = ui.Screen(d, p.Name, ui.Centre(valueText(p, e.get(e.page), e.editing, e.field)))
}
