// Package conundrum is the thirty second countdown for a word puzzle. Play
// starts and pauses the clock; a buzz stops it and shows who buzzed.
package conundrum

import (
	"fmt"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/clock"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
	"bozzard/bozos/sound"
)

// DurationMs is the length of the countdown.
const DurationMs = 30000

const refreshMs = 100

type puzzle struct {
	ctx    *kernel.Context
	c      clock.Clock
	buzzed int
	over   bool
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	c, err := ctx.NewClock(DurationMs, false)
	if err != nil {
		_ = ui.Screen(ctx.Display(), "Conundrum", "No clock free")
		ctx.OnRotaryPress(func() { _ = ctx.Exit(1) })
		return
	}
	p := &puzzle{ctx: ctx, c: c, buzzed: -1}
	ctx.OnPlay(p.play)
	ctx.OnBuzz(p.buzz)
	ctx.OnReset(p.reset)
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	p.reset()
}

func (p *puzzle) play() {
	if p.over {
		return
	}
	if p.c.Running() {
		p.c.Stop()
	} else {
		p.buzzed = -1
		p.c.Run()
		p.ctx.SetAlarm(refreshMs, p.refresh)
	}
	p.draw()
}

func (p *puzzle) buzz(b int) {
	if !p.c.Running() {
		return
	}
	p.c.Stop()
	p.buzzed = b
	p.ctx.SetLEDs(1 << b)
	_ = p.ctx.Sound().SquareBell(b)
	p.draw()
}

func (p *puzzle) reset() {
	p.c.Stop()
	p.c.Reset()
	p.c.SetExpiryMin(0, p.timeUp)
	p.over, p.buzzed = false, -1
	p.ctx.SetLEDs(0)
	p.ctx.CancelAlarm()
	p.draw()
}

func (p *puzzle) timeUp(clock.Clock) {
	p.over = true
	p.ctx.SetLEDs(0x0F)
	_ = p.ctx.Sound().Arpeggio([]sound.Note{sound.NoteA4, sound.NoteE5, sound.NoteA5}, 1000, 1)
	p.draw()
}

func (p *puzzle) refresh() {
	if p.c.Running() {
		p.ctx.SetAlarm(refreshMs, p.refresh)
	}
	p.draw()
}

func (p *puzzle) draw() {
	var bottom string
	switch {
	case p.over:
		bottom = "Time up"
	case p.buzzed >= 0:
		bottom = fmt.Sprintf("Buzzer %d", p.buzzed+1)
	case !p.c.Running():
		bottom = ui.Glyph(display.CharPlay) + " start"
	}
	top := "Conundrum " + display.FormatClock(p.c.Value(), true)
	_ = ui.Screen(p.ctx.Display(), top, ui.Centre(bottom))
}
