package app

import (
	"fmt"
	"strings"

	"bozzard/bozos/apps/ui"
	"bozzard/bozos/display"
	"bozzard/bozos/fault"
	"bozzard/bozos/kernel"
	"bozzard/hal"
)

// showCrash logs why the console stopped and puts the crash screen up. The
// kernel has already emptied the display queue and lit the crash pattern;
// in crash mode it keeps draining the display, so the screen still gets out.
func showCrash(h hal.HAL, d *display.Controller, info kernel.CrashInfo) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("Bozzard crash: app=%d pattern=0x%02x", info.App, info.Pattern))
		if info.Value != nil {
			l.WriteLineString(fmt.Sprintf("panic: %v", info.Value))
		}
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}
	top, bottom := crashLines(info)
	_ = d.Clear()
	_ = ui.Screen(d, top, bottom)
}

func crashLines(info kernel.CrashInfo) (top, bottom string) {
	top = fmt.Sprintf("CRASH app %d", info.App)
	switch {
	case info.Value == nil:
		bottom = fmt.Sprintf("Pattern 0x%02X", info.Pattern)
	default:
		if v, ok := fault.As(info.Value); ok {
			bottom = v.Subsystem + ": " + v.Op
		} else {
			bottom = fmt.Sprint(info.Value)
		}
	}
	return top, bottom
}
