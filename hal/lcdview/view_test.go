package lcdview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/display"
	"bozzard/bozos/display/lcdsim"
)

func inkIn(img *image.RGBA, scale, row, col int) int {
	n := 0
	x0 := (margin + col*pitchX) * scale
	y0 := (margin + row*pitchY) * scale
	for y := y0; y < y0+CellHeight*scale; y++ {
		for x := x0; x < x0+CellWidth*scale; x++ {
			if img.RGBAAt(x, y) == Ink {
				n++
			}
		}
	}
	return n
}

func newLCD(t *testing.T) *lcdsim.LCD {
	t.Helper()
	lcd := lcdsim.New()
	c := display.NewController(lcd)
	c.Init()
	require.NoError(t, c.WriteAt(0, 0, "A "))
	require.NoError(t, c.WriteAt(1, 0, string([]byte{display.CharReset})))
	c.Poll(0)
	return lcd
}

func TestDrawsCharactersAndGlyphs(t *testing.T) {
	lcd := newLCD(t)
	v := View{Scale: 2}
	img := v.NewImage()
	v.Draw(img, lcd, false)

	require.Equal(t, Lit, img.RGBAAt(0, 0))
	require.Positive(t, inkIn(img, 2, 0, 0))
	require.Zero(t, inkIn(img, 2, 0, 1))

	var want int
	for _, bits := range display.DefaultGlyphs[display.CharReset] {
		for col := 0; col < CellWidth; col++ {
			if bits&(0x10>>col) != 0 {
				want++
			}
		}
	}
	require.Equal(t, want*4, inkIn(img, 2, 1, 0))
}

func TestBacklightOffAndDisplayOff(t *testing.T) {
	lcd := newLCD(t)
	lcd.SetBacklight(false)
	v := View{}
	img := v.NewImage()
	v.Draw(img, lcd, false)
	require.Equal(t, Unlit, img.RGBAAt(0, 0))

	lcd.Command(0x08)
	v.Draw(img, lcd, false)
	require.Zero(t, inkIn(img, 1, 0, 0))
}

func TestSize(t *testing.T) {
	w, h := View{Scale: 3}.Size()
	require.Equal(t, (2*margin+16*6-1)*3, w)
	require.Equal(t, (2*margin+2*9-1)*3, h)
}
