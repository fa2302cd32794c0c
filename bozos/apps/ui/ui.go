// Package ui has the small screen helpers the apps share.
package ui

import (
	"strings"

	"bozzard/bozos/display"
)

// Fit pads or truncates s to exactly one display row.
func Fit(s string) string {
	if len(s) >= display.Columns {
		return s[:display.Columns]
	}
	return s + strings.Repeat(" ", display.Columns-len(s))
}

// Centre places s in the middle of a row.
func Centre(s string) string {
	if len(s) >= display.Columns {
		return s[:display.Columns]
	}
	return Fit(strings.Repeat(" ", (display.Columns-len(s))/2) + s)
}

// Line overwrites one whole row.
func Line(d *display.Controller, row int, s string) error {
	if d == nil {
		return nil
	}
	return d.WriteAt(row, 0, Fit(s))
}

// Screen overwrites both rows.
func Screen(d *display.Controller, top, bottom string) error {
	if d == nil {
		return nil
	}
	if d.Free() < 2*(display.Columns+1) {
		return display.ErrQueueFull
	}
	_ = Line(d, 0, top)
	return Line(d, 1, bottom)
}

// Glyph returns the custom character code as a one byte string.
func Glyph(code byte) string { return string([]byte{code}) }
