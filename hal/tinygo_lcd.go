//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"
)

// i2cLCD replays HD44780 command words on a PCF8574 backpack. The driver
// waits out the busy time itself, so Command reports none.
type i2cLCD struct {
	dev hd44780i2c.Device

	cgram     bool
	cgramAddr uint8
	glyph     [8]byte
	backlight bool

	on, cursor, blink bool
}

func newI2CLCD(bus *machine.I2C, sda, scl machine.Pin, addr uint8) (*i2cLCD, error) {
	if err := bus.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}
	l := &i2cLCD{dev: hd44780i2c.New(bus, addr), backlight: true, on: true}
	if err := l.dev.Configure(hd44780i2c.Config{Width: 16, Height: 2}); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *i2cLCD) Command(cmd uint16) uint32 {
	b := byte(cmd)
	if cmd&0x100 != 0 {
		if l.cgram {
			l.glyph[l.cgramAddr&7] = b
			if l.cgramAddr&7 == 7 {
				l.dev.CreateCharacter(l.cgramAddr>>3, l.glyph[:])
			}
			l.cgramAddr = (l.cgramAddr + 1) & 0x3F
			return 0
		}
		l.dev.Print([]byte{b})
		return 0
	}

	switch {
	case b&0x80 != 0:
		l.cgram = false
		addr := b & 0x7F
		row := uint8(0)
		if addr >= 0x40 {
			row, addr = 1, addr-0x40
		}
		l.dev.SetCursor(addr, row)
	case b&0x40 != 0:
		l.cgram = true
		l.cgramAddr = b & 0x3F
	case b&0x08 != 0 && b&0xF0 == 0:
		l.on, l.cursor, l.blink = b&0x04 != 0, b&0x02 != 0, b&0x01 != 0
		l.dev.DisplayOn(l.on)
		l.dev.CursorOn(l.cursor)
		l.dev.CursorBlink(l.blink)
	case b == 0x02 || b == 0x03:
		l.cgram = false
		l.dev.Home()
	case b == 0x01:
		l.cgram = false
		l.dev.ClearDisplay()
	}
	// Function set, entry mode and shift stay at the driver's defaults.
	return 0
}

func (l *i2cLCD) SetBacklight(on bool) {
	l.backlight = on
	l.dev.BacklightOn(on)
}

func (l *i2cLCD) Backlight() bool { return l.backlight }
