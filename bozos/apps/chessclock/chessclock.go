// Package chessclock is a two player game clock. Each side's buzzers end
// that side's turn and start the other clock.
package chessclock

import (
	"encoding/binary"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/options"
	"bozzard/bozos/apps/ui"
	"bozzard/bozos/clock"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
	"bozzard/bozos/sound"
)

// RegionBytes is the persistent storage the app asks for: the time per side
// in seconds (u16) and the increment in seconds (u8).
const RegionBytes = 4

const (
	defaultSeconds = 5 * 60
	refreshMs      = 100
	none           = -1
)

var settingPages = []options.Page{
	{Name: "Time each", Type: options.ClockHrMinSec, Min: 10, Max: 5 * 3600},
	{Name: "Increment secs", Type: options.Number, Min: 0, Max: 60},
}

type game struct {
	ctx    *kernel.Context
	clocks [2]clock.Clock
	turn   int
	paused bool
	fallen int

	seconds   int32
	increment int32

	menu    options.Menu
	results [2]int32
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	g := &game{ctx: ctx, turn: none, fallen: none}
	g.load()
	for i := range g.clocks {
		c, err := ctx.NewClock(g.seconds*1000, false)
		if err != nil {
			_ = ui.Screen(ctx.Display(), "Chess clocks", "No clock free")
			ctx.OnRotaryPress(func() { _ = ctx.Exit(1) })
			return
		}
		g.clocks[i] = c
	}

	ctx.OnBuzz(func(b int) { g.endTurn(b / 2) })
	ctx.OnPlay(g.pause)
	ctx.OnReset(g.reset)
	ctx.OnYellow(g.configure)
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	g.reset()
	g.tick()
}

func (g *game) load() {
	g.seconds, g.increment = defaultSeconds, 0
	var b [RegionBytes]byte
	if g.ctx.EEPROMRead(b[:], 0) != nil {
		return
	}
	if s := binary.LittleEndian.Uint16(b[0:2]); s != 0xFFFF && s > 0 {
		g.seconds = int32(s)
	}
	if b[2] != 0xFF {
		g.increment = int32(b[2])
	}
}

func (g *game) save() {
	var b [3]byte
	binary.LittleEndian.PutUint16(b[0:2], uint16(g.seconds))
	b[2] = byte(g.increment)
	_ = g.ctx.EEPROMWrite(b[:], 0)
}

// endTurn is side finishing its move.
func (g *game) endTurn(side int) {
	if g.fallen != none || g.paused {
		return
	}
	if g.turn != none && g.turn != side {
		return
	}
	other := 1 - side
	if g.turn == side {
		g.clocks[side].Stop()
		g.clocks[side].Add(g.increment * 1000)
	}
	g.turn = other
	g.clocks[other].Run()
	_ = g.ctx.Sound().Note(sound.NoteC5, 40)
	g.ctx.ForbidSleep(true)
	g.draw()
}

func (g *game) pause() {
	if g.turn == none || g.fallen != none {
		return
	}
	g.paused = !g.paused
	if g.paused {
		g.clocks[g.turn].Stop()
	} else {
		g.clocks[g.turn].Run()
	}
	g.draw()
}

func (g *game) reset() {
	for i := range g.clocks {
		c := g.clocks[i]
		c.Stop()
		c.SetInitialValue(g.seconds * 1000)
		c.Reset()
		side := i
		c.SetExpiryMin(0, func(clock.Clock) { g.flag(side) })
	}
	g.turn, g.paused, g.fallen = none, false, none
	g.ctx.SetLEDs(0)
	g.ctx.ForbidSleep(false)
	g.draw()
}

func (g *game) flag(side int) {
	g.fallen = side
	g.ctx.ForbidSleep(false)
	g.ctx.LED(side, true)
	_ = g.ctx.Sound().Arpeggio([]sound.Note{sound.NoteC5, sound.NoteE5, sound.NoteG5}, 600, 2)
	g.draw()
}

func (g *game) configure() {
	if g.turn != none && !g.paused && g.fallen == none {
		return
	}
	g.results = [2]int32{g.seconds, g.increment}
	g.menu = options.Menu{Pages: settingPages, Results: g.results[:]}
	err := g.ctx.Call(appid.Options, &g.menu, func(status int) {
		if status == options.StatusAccept {
			g.seconds, g.increment = g.results[0], g.results[1]
			g.save()
			g.reset()
		}
		g.draw()
	})
	if err != nil {
		g.draw()
	}
}

func (g *game) tick() {
	g.ctx.SetAlarm(refreshMs, g.tick)
	if g.turn != none && !g.paused {
		g.draw()
	}
}

func (g *game) draw() {
	var marks [2]string
	for i := range marks {
		marks[i] = " "
		if g.turn == i {
			marks[i] = ui.Glyph(display.CharPlay)
		}
	}
	left := marks[0] + display.FormatClock(g.clocks[0].Value(), true)
	right := display.FormatClock(g.clocks[1].Value(), true) + marks[1]
	pad := display.Columns - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	top := left + spaces(pad) + right

	var bottom string
	switch {
	case g.fallen != none:
		bottom = ui.Centre(sideName(g.fallen) + " flag")
	case g.paused:
		bottom = ui.Centre("Paused")
	case g.turn == none:
		bottom = ui.Centre("Buzz to start")
	}
	_ = ui.Screen(g.ctx.Display(), top, bottom)
}

func sideName(side int) string {
	if side == 0 {
		return "Left"
	}
	return "Right"
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
