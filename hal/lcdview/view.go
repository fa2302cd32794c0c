// Package lcdview draws an emulated 2x16 character LCD into an image: the
// desktop window shows it and tools can save it as a screenshot.
package lcdview

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"bozzard/bozos/display"
)

// LCD is what the view reads from the emulated controller.
type LCD interface {
	Cell(row, col int) byte
	Glyph(code byte) [8]byte
	Backlight() bool
	DisplayOn() bool
	Cursor() (row, col int, blink, ok bool)
}

const (
	margin = 4
	pitchX = CellWidth + 1
	pitchY = CellHeight + 1
)

var (
	Lit   = color.RGBA{R: 0x9C, G: 0xD6, B: 0x3C, A: 0xFF}
	Unlit = color.RGBA{R: 0x4A, G: 0x5C, B: 0x28, A: 0xFF}
	Ink   = color.RGBA{R: 0x18, G: 0x28, B: 0x10, A: 0xFF}
)

// View renders at an integer scale; one LCD pixel becomes Scale x Scale
// image pixels.
type View struct {
	Scale int
}

func (v View) scale() int {
	if v.Scale < 1 {
		return 1
	}
	return v.Scale
}

// Size is the image size Draw fills.
func (v View) Size() (w, h int) {
	s := v.scale()
	return (2*margin + display.Columns*pitchX - 1) * s, (2*margin + display.Rows*pitchY - 1) * s
}

// NewImage allocates an image of the right size.
func (v View) NewImage() *image.RGBA {
	w, h := v.Size()
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Draw paints the whole panel. cursorPhase drives the blinking cursor.
func (v View) Draw(img *image.RGBA, lcd LCD, cursorPhase bool) {
	c := &canvas{img: img, scale: v.scale()}
	bg := Unlit
	if lcd.Backlight() {
		bg = Lit
	}
	w, h := v.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	if !lcd.DisplayOn() {
		return
	}

	for row := 0; row < display.Rows; row++ {
		for col := 0; col < display.Columns; col++ {
			x := int16(margin + col*pitchX)
			y := int16(margin + row*pitchY)
			code := lcd.Cell(row, col)
			if code < 8 {
				drawCustom(c, x, y, lcd.Glyph(code))
				continue
			}
			tinyfont.DrawChar(c, Font, x, y+CellHeight-1, rune(code), Ink)
		}
	}

	if row, col, blink, ok := lcd.Cursor(); ok {
		x := int16(margin + col*pitchX)
		y := int16(margin + row*pitchY)
		if blink && cursorPhase {
			for dy := int16(0); dy < CellHeight; dy++ {
				for dx := int16(0); dx < CellWidth; dx++ {
					c.SetPixel(x+dx, y+dy, Ink)
				}
			}
		} else {
			for dx := int16(0); dx < CellWidth; dx++ {
				c.SetPixel(x+dx, y+CellHeight-1, Ink)
			}
		}
	}
}

func drawCustom(c *canvas, x, y int16, g [8]byte) {
	for row, bits := range g {
		for col := 0; col < CellWidth; col++ {
			if bits&(0x10>>col) != 0 {
				c.SetPixel(x+int16(col), y+int16(row), Ink)
			}
		}
	}
}

type canvas struct {
	img   *image.RGBA
	scale int
}

var _ drivers.Displayer = (*canvas)(nil)

func (c *canvas) Size() (x, y int16) {
	b := c.img.Bounds()
	return int16(b.Dx() / c.scale), int16(b.Dy() / c.scale)
}

func (c *canvas) SetPixel(x, y int16, col color.RGBA) {
	px, py := int(x)*c.scale, int(y)*c.scale
	for dy := 0; dy < c.scale; dy++ {
		for dx := 0; dx < c.scale; dx++ {
			c.img.SetRGBA(px+dx, py+dy, col)
		}
	}
}

func (c *canvas) Display() error { return nil }
