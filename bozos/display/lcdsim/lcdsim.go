// Package lcdsim emulates an HD44780 character controller well enough to run
// the console without hardware: display RAM, character RAM, entry mode,
// display shift and the busy times of the real part.
package lcdsim

import (
	"sync"

	"bozzard/bozos/display"
)

const (
	ddramRow = 40
	cgramLen = 64

	busyClearUs = 1520
	busyShortUs = 37
	busyDataUs  = 41
)

// LCD is safe for one writer (the tick loop) and concurrent readers.
type LCD struct {
	mu sync.RWMutex

	ddram [display.Rows][ddramRow]byte
	cgram [cgramLen]byte

	addr      int
	toCGRAM   bool
	increment bool
	shiftOn   bool
	shift     int

	on, cursor, blink bool
	backlight         bool
}

func New() *LCD {
	l := &LCD{increment: true, backlight: true}
	l.clear()
	return l
}

func (l *LCD) clear() {
	for r := range l.ddram {
		for c := range l.ddram[r] {
			l.ddram[r][c] = ' '
		}
	}
	l.addr, l.toCGRAM, l.shift = 0, false, 0
	l.increment = true
}

// Command executes one command word.
func (l *LCD) Command(cmd uint16) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cmd&display.Data != 0 {
		l.write(byte(cmd))
		return busyDataUs
	}
	b := byte(cmd)
	switch {
	case b&0x80 != 0:
		l.toCGRAM, l.addr = false, int(b&0x7F)
	case b&0x40 != 0:
		l.toCGRAM, l.addr = true, int(b&0x3F)
	case b&0x20 != 0:
	case b&0x10 != 0:
		step := -1
		if b&0x04 != 0 {
			step = 1
		}
		if b&0x08 != 0 {
			// Shifting the display left moves the window right.
			l.shift = (l.shift - step + ddramRow) % ddramRow
		} else {
			l.move(step)
		}
	case b&0x08 != 0:
		l.on, l.cursor, l.blink = b&0x04 != 0, b&0x02 != 0, b&0x01 != 0
	case b&0x04 != 0:
		l.increment, l.shiftOn = b&0x02 != 0, b&0x01 != 0
	case b&0x02 != 0:
		l.toCGRAM, l.addr, l.shift = false, 0, 0
		return busyClearUs
	case b&0x01 != 0:
		l.clear()
		return busyClearUs
	}
	return busyShortUs
}

func (l *LCD) write(ch byte) {
	if l.toCGRAM {
		l.cgram[l.addr] = ch & 0x1F
		l.addr = (l.addr + 1) % cgramLen
		return
	}
	row, col := l.pos()
	l.ddram[row][col] = ch
	step := 1
	if !l.increment {
		step = -1
	}
	l.move(step)
	if l.shiftOn {
		l.shift = (l.shift + step + ddramRow) % ddramRow
	}
}

func (l *LCD) pos() (row, col int) {
	row = 0
	if l.addr >= 0x40 {
		row = 1
	}
	col = (l.addr & 0x3F) % ddramRow
	return row, col
}

func (l *LCD) move(step int) {
	row, col := l.pos()
	col = (col + step + ddramRow) % ddramRow
	l.addr = row*0x40 + col
}

func (l *LCD) SetBacklight(on bool) {
	l.mu.Lock()
	l.backlight = on
	l.mu.Unlock()
}

func (l *LCD) Backlight() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.backlight
}

// DisplayOn reports the display-on bit. The controller comes up dark until
// the first display control command.
func (l *LCD) DisplayOn() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.on
}

// Cursor is the visible cursor position, ok false when the cursor is hidden.
func (l *LCD) Cursor() (row, col int, blink, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, col = l.pos()
	col = (col - l.shift + ddramRow) % ddramRow
	return row, col, l.blink, l.cursor && col < display.Columns
}

// Cell is the character code shown at (row, col).
func (l *LCD) Cell(row, col int) byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ddram[row][(col+l.shift)%ddramRow]
}

// Row is the visible text of one row. Custom characters come out as their
// codes.
func (l *LCD) Row(row int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var b [display.Columns]byte
	for c := range b {
		b[c] = l.ddram[row][(c+l.shift)%ddramRow]
	}
	return string(b[:])
}

// Glyph is the bitmap of custom character code, one byte per pixel row.
func (l *LCD) Glyph(code byte) [8]byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var g [8]byte
	copy(g[:], l.cgram[int(code&7)*8:])
	return g
}
