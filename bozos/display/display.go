// Package display queues HD44780 commands for the 2x16 character LCD and
// drains them one at a time from the tick loop.
package display

import (
	"errors"

	"bozzard/bozos/queue"
)

const (
	Rows    = 2
	Columns = 16

	// QueueLen is the number of command words the queue holds.
	QueueLen = 64
)

// Command word layout: the low byte is the instruction or data byte, Data
// marks a write to display RAM, ResetCGRAM reloads the default custom
// characters.
const (
	Data       uint16 = 0x100
	ResetCGRAM uint16 = 0x200
)

const (
	cmdClear        = 0x01
	cmdHome         = 0x02
	cmdEntryMode    = 0x04
	cmdDisplayCtl   = 0x08
	cmdShift        = 0x10
	cmdFunctionSet  = 0x20
	cmdSetCGRAMAddr = 0x40
	cmdSetDDRAMAddr = 0x80

	rowStride = 0x40
)

var (
	ErrQueueFull       = errors.New("display: queue full")
	ErrInvalidPosition = errors.New("display: position out of range")
)

// LCD executes one command word and reports how long the controller stays
// busy, in microseconds.
type LCD interface {
	Command(cmd uint16) (busyUs uint32)
	SetBacklight(on bool)
	Backlight() bool
}

// Controller owns the command queue and the LCD it feeds.
type Controller struct {
	q   *queue.Ring[uint16]
	lcd LCD
}

func NewController(lcd LCD) *Controller {
	return &Controller{q: queue.New[uint16](QueueLen), lcd: lcd}
}

func (c *Controller) Full() bool   { return c.q.Full() }
func (c *Controller) Pending() int { return c.q.Len() }
func (c *Controller) Free() int    { return c.q.Free() }

// Enqueue adds one raw command word.
func (c *Controller) Enqueue(cmd uint16) error {
	if !c.q.Push(cmd) {
		return ErrQueueFull
	}
	return nil
}

// Clear blanks the display and homes the cursor.
func (c *Controller) Clear() error { return c.Enqueue(cmdClear) }

// Home moves the cursor to row 0, column 0.
func (c *Controller) Home() error { return c.Enqueue(cmdHome) }

// SetEntryMode selects cursor movement after each write.
func (c *Controller) SetEntryMode(increment, shift bool) error {
	return c.Enqueue(cmdEntryMode | bit(increment, 1) | bit(shift, 0))
}

// Properties switches the display, cursor and cursor blink on or off.
func (c *Controller) Properties(displayOn, cursorOn, blinkOn bool) error {
	return c.Enqueue(cmdDisplayCtl | bit(displayOn, 2) | bit(cursorOn, 1) | bit(blinkOn, 0))
}

// Shift moves the cursor, or the whole display when shiftDisplay is set.
func (c *Controller) Shift(shiftDisplay, right bool) error {
	return c.Enqueue(cmdShift | bit(shiftDisplay, 3) | bit(right, 2))
}

// FunctionSet is issued during bring-up and rarely needed afterwards.
func (c *Controller) FunctionSet(eightBit, twoLines, tallFont bool) error {
	return c.Enqueue(cmdFunctionSet | bit(eightBit, 4) | bit(twoLines, 3) | bit(tallFont, 2))
}

// SetCGRAMAddress points writes at custom character memory. Bits 3-5 pick
// the character, bits 0-2 the pixel row.
func (c *Controller) SetCGRAMAddress(addr int) error {
	if addr < 0 || addr > 0x3F {
		return ErrInvalidPosition
	}
	return c.Enqueue(cmdSetCGRAMAddr | uint16(addr))
}

// SetCursor moves the cursor to (row, col).
func (c *Controller) SetCursor(row, col int) error {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return ErrInvalidPosition
	}
	return c.Enqueue(cmdSetDDRAMAddr | uint16(row*rowStride+col))
}

// WriteChar writes one character at the cursor.
func (c *Controller) WriteChar(ch byte) error {
	return c.Enqueue(Data | uint16(ch))
}

// WriteString queues every byte of s, or nothing if they don't all fit.
func (c *Controller) WriteString(s string) error {
	if len(s) > c.q.Free() {
		return ErrQueueFull
	}
	for i := 0; i < len(s); i++ {
		c.q.Push(Data | uint16(s[i]))
	}
	return nil
}

// WriteAt is SetCursor followed by WriteString, queued as a unit.
func (c *Controller) WriteAt(row, col int, s string) error {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return ErrInvalidPosition
	}
	if len(s)+1 > c.q.Free() {
		return ErrQueueFull
	}
	c.q.Push(cmdSetDDRAMAddr | uint16(row*rowStride+col))
	for i := 0; i < len(s); i++ {
		c.q.Push(Data | uint16(s[i]))
	}
	return nil
}

// ResetCustomChars restores the default custom characters. The cursor ends
// up at (0, 0).
func (c *Controller) ResetCustomChars() error { return c.Enqueue(ResetCGRAM) }

// SetBacklight takes effect immediately, bypassing the queue.
func (c *Controller) SetBacklight(on bool) {
	if c.lcd != nil {
		c.lcd.SetBacklight(on)
	}
}

func (c *Controller) Backlight() bool {
	return c.lcd != nil && c.lcd.Backlight()
}

// Discard drops everything still queued.
func (c *Controller) Discard() { c.q.Clear() }

func bit(on bool, n uint) uint16 {
	if on {
		return 1 << n
	}
	return 0
}
