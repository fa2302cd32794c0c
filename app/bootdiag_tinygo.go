//go:build tinygo && bootdebug

package app

import (
	"machine"
	"strconv"
	"time"

	"bozzard/hal"
)

// Boot steps slower than this get a reminder line until they finish.
const bootStallMs = 1000

var (
	boot   bootLog
	bootHW hal.HAL
)

func bootNow(h hal.HAL) uint32 {
	if h == nil || h.Time() == nil {
		return 0
	}
	return h.Time().Millis()
}

func bootEmit(h hal.HAL, line string) {
	if h != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(line)
		}
	}
	// USB CDC may come up before the UART logger does.
	if usb := machine.USBCDC; usb != nil {
		_, _ = usb.Write([]byte(line + "\r\n"))
	}
}

func bootDiagSetStep(msg string) {
	h := bootHW
	n, line := boot.mark(msg, bootNow(h))
	bootEmit(h, line)
	if h == nil {
		return
	}
	if leds := h.LEDs(); leds != nil {
		if msg == bootDone {
			leds.SetLEDs(0)
		} else {
			leds.SetLEDs(bootMask(n))
		}
	}
}

func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	bootHW = h
	bootDiagSetStep("hal")

	go func() {
		for !boot.done() {
			time.Sleep(bootStallMs / 2 * time.Millisecond)
			name, _, stepMs, _ := boot.current(bootNow(h))
			if name != bootDone && stepMs >= bootStallMs {
				bootEmit(h, "boot: still in "+name+" after "+strconv.FormatUint(uint64(stepMs), 10)+"ms")
			}
		}
	}()
}
