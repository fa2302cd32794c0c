// Package crash lets the quiz master pick an LED pattern and deliberately
// crash the console, to check the crash screen.
package crash

import (
	"fmt"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/kernel"
)

type picker struct {
	ctx     *kernel.Context
	pattern uint8
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	p := &picker{ctx: ctx, pattern: 0x0F}
	ctx.OnRotary(func(cw bool) {
		if cw {
			p.pattern++
		} else {
			p.pattern--
		}
		p.draw()
	})
	ctx.OnPlay(func() { ctx.Crash(p.pattern) })
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	p.draw()
}

func (p *picker) draw() {
	_ = ui.Screen(p.ctx.Display(), "Crash pattern", fmt.Sprintf("0x%02X  play=go", p.pattern))
}
