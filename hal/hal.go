// Package hal is the only contact point between the console runtime and the
// outside world. The runtime sees the interfaces below; each build flavour
// provides one implementation of HAL.
package hal

import (
	"errors"

	"bozzard/bozos/input"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LEDs drives the four contestant LEDs. Bit i lights LED i.
type LEDs interface {
	SetLEDs(mask uint8)
}

var ErrNotImplemented = errors.New("not implemented")

// CharLCD is an HD44780 compatible controller. Command executes one command
// word and reports how long the controller stays busy, in microseconds.
type CharLCD interface {
	Command(cmd uint16) (busyUs uint32)
	SetBacklight(on bool)
	Backlight() bool
}

// Speaker plays a square wave. Zero is silence.
type Speaker interface {
	SetFrequency(hz uint16)
}

// Buttons reports the debounce-free level of every panel line and when it
// last changed.
type Buttons interface {
	Level(b input.Button) (active bool, changedAt uint32)
}

// Time is a free-running millisecond counter. It wraps.
type Time interface {
	Millis() uint32
}

// EEPROM provides byte-addressed non-volatile memory.
type EEPROM interface {
	Size() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
}

// Serial is the PC link. Buffered never blocks.
type Serial interface {
	Buffered() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Battery reads the supply voltage. Zero means unknown.
type Battery interface {
	Millivolts() uint16
}

// Power idles the CPU until the next tick. allowSleep permits a deeper
// state that may stop the display multiplexing.
type Power interface {
	Idle(allowSleep bool)
}

// HAL provides every device. An accessor may return nil when the platform
// lacks the device; Time and Buttons are always present.
type HAL interface {
	Logger() Logger
	LEDs() LEDs
	LCD() CharLCD
	Speaker() Speaker
	Buttons() Buttons
	Time() Time
	EEPROM() EEPROM
	Serial() Serial
	Battery() Battery
	Power() Power
}
