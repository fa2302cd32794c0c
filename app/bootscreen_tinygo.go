//go:build tinygo && bootdebug

package app

import (
	"bozzard/bozos/display"
	"bozzard/hal"
)

const bootTitle = "Bozzard boot"

// bootScreen writes straight to the controller: the display queue does not
// exist yet.
func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	if h == nil {
		return
	}
	lcd := h.LCD()
	if lcd == nil {
		return
	}
	_, n, _, total := boot.current(bootNow(h))
	lcd.Command(0x01)
	bootText(lcd, bootTitle)
	lcd.Command(0x80 | 0x40)
	bootText(lcd, bootRow(n, msg, total))
}

func bootText(lcd hal.CharLCD, s string) {
	for i := 0; i < len(s) && i < display.Columns; i++ {
		lcd.Command(display.Data | uint16(s[i]))
	}
}
