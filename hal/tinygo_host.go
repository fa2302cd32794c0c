//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
	"time"

	"bozzard/bozos/display/lcdsim"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	leds   *tinyGoHostLEDs
	lcd    *lcdsim.LCD
	t      *tinyGoHostTime
	panel  *VirtualPanel
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
func New() HAL {
	l := &tinyGoHostLogger{}
	t := &tinyGoHostTime{start: time.Now()}
	return &tinyGoHostHAL{
		logger: l,
		leds:   &tinyGoHostLEDs{logger: l},
		lcd:    lcdsim.New(),
		t:      t,
		panel:  NewVirtualPanel(t),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LEDs() LEDs       { return h.leds }
func (h *tinyGoHostHAL) LCD() CharLCD     { return h.lcd }
func (h *tinyGoHostHAL) Speaker() Speaker { return nil }
func (h *tinyGoHostHAL) Buttons() Buttons { return h.panel.Buttons() }
func (h *tinyGoHostHAL) Time() Time       { return h.t }
func (h *tinyGoHostHAL) EEPROM() EEPROM   { return nil }
func (h *tinyGoHostHAL) Serial() Serial   { return nil }
func (h *tinyGoHostHAL) Battery() Battery { return nil }
func (h *tinyGoHostHAL) Power() Power     { return nil }

type tinyGoHostTime struct {
	start time.Time
}

func (t *tinyGoHostTime) Millis() uint32 {
	return uint32(time.Since(t.start) / time.Millisecond)
}

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLEDs struct {
	mask   uint8
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLEDs) SetLEDs(mask uint8) {
	if mask == l.mask {
		return
	}
	l.mask = mask
	l.logger.WriteLineString(fmt.Sprintf("leds: %04b (tinygo/%s)", mask, runtime.GOOS))
}
