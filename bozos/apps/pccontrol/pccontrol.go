// Package pccontrol hands the console over to a PC on the serial link. The
// PC sends line commands; the console reports every button as a line.
//
//	PING              -> PONG
//	TEXT <row> <text> write a row
//	CLEAR             blank the display
//	LED <mask>        set the LEDs (decimal or 0x hex)
//	NOTE <note> <ms>  play a MIDI note
//	BELL <buzzer>     play a buzzer's bell
//	EXIT              return to the menu
//
// Replies are OK or ERR <reason>. Events are BUZZ <n>, PLAY, YELLOW, RESET
// and ROT +1 or ROT -1.
package pccontrol

import (
	"fmt"
	"strconv"
	"strings"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/kernel"
	"bozzard/bozos/mm"
	"bozzard/bozos/sound"
)

// LineMax is the longest command accepted.
const LineMax = 40

type link struct {
	ctx  *kernel.Context
	line mm.Ptr
	n    int
	long bool
	rx   [16]byte
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	if ctx.Serial() == nil {
		_ = ui.Screen(ctx.Display(), "PC control", "No serial port")
		ctx.OnRotaryPress(func() { _ = ctx.Exit(1) })
		return
	}
	l := &link{ctx: ctx, line: ctx.Alloc(LineMax)}
	if l.line == mm.Nil {
		_ = ctx.Exit(1)
		return
	}

	ctx.OnSerialData(l.receive)
	ctx.OnBuzz(func(b int) { l.send(fmt.Sprintf("BUZZ %d", b)) })
	ctx.OnPlay(func() { l.send("PLAY") })
	ctx.OnYellow(func() { l.send("YELLOW") })
	ctx.OnReset(func() { l.send("RESET") })
	ctx.OnRotary(func(cw bool) {
		if cw {
			l.send("ROT +1")
		} else {
			l.send("ROT -1")
		}
	})
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	ctx.ForbidSleep(true)
	_ = ui.Screen(ctx.Display(), "PC control", "Waiting")
}

func (l *link) send(s string) {
	_, _ = l.ctx.Serial().Write([]byte(s + "\n"))
}

func (l *link) receive() {
	n, err := l.ctx.Serial().Read(l.rx[:])
	if err != nil || n == 0 {
		return
	}
	buf := l.ctx.Bytes(l.line)
	for _, b := range l.rx[:n] {
		switch {
		case b == '\n' || b == '\r':
			if l.long {
				l.send("ERR too long")
			} else if l.n > 0 {
				l.exec(string(buf[:l.n]))
			}
			l.n, l.long = 0, false
		case l.n == len(buf):
			l.long = true
		default:
			buf[l.n] = b
			l.n++
		}
	}
}

func (l *link) exec(line string) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch strings.ToUpper(cmd) {
	case "PING":
		l.send("PONG")
		return
	case "TEXT":
		r, text, _ := strings.Cut(rest, " ")
		row, err := strconv.Atoi(r)
		if err != nil || row < 0 || row > 1 {
			l.send("ERR bad row")
			return
		}
		if err := ui.Line(l.ctx.Display(), row, text); err != nil {
			l.send("ERR " + err.Error())
			return
		}
	case "CLEAR":
		if err := l.ctx.Display().Clear(); err != nil {
			l.send("ERR " + err.Error())
			return
		}
	case "LED":
		mask, err := strconv.ParseUint(strings.TrimSpace(rest), 0, 8)
		if err != nil {
			l.send("ERR bad mask")
			return
		}
		l.ctx.SetLEDs(uint8(mask))
	case "NOTE":
		f := strings.Fields(rest)
		if len(f) != 2 {
			l.send("ERR usage")
			return
		}
		note, err1 := strconv.ParseUint(f[0], 10, 7)
		ms, err2 := strconv.ParseUint(f[1], 10, 16)
		if err1 != nil || err2 != nil {
			l.send("ERR usage")
			return
		}
		if err := l.ctx.Sound().Note(sound.Note(note), uint16(ms)); err != nil {
			l.send("ERR " + err.Error())
			return
		}
	case "BELL":
		b, err := strconv.Atoi(strings.TrimSpace(rest))
		if err == nil {
			err = l.ctx.Sound().SquareBell(b)
		}
		if err != nil {
			l.send("ERR bad buzzer")
			return
		}
	case "EXIT":
		l.send("OK")
		_ = l.ctx.Exit(0)
		return
	default:
		l.send("ERR unknown")
		return
	}
	l.send("OK")
}
