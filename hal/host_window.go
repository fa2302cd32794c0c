//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"bozzard/hal/lcdview"
	"bozzard/internal/buildinfo"
)

const (
	windowScale = 4
	ledStrip    = 16
	ledSize     = 10
	cursorMs    = 500
)

var ledColors = [4]color.RGBA{
	{R: 0xE0, G: 0x20, B: 0x20, A: 0xFF},
	{R: 0x20, G: 0xC0, B: 0x40, A: 0xFF},
	{R: 0xF0, G: 0xD0, B: 0x20, A: 0xFF},
	{R: 0x30, G: 0x60, B: 0xF0, A: 0xFF},
}

var ledOff = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}

// RunWindow opens a desktop window showing the LCD and LEDs and forwarding
// keyboard input to the panel. It blocks until the window closes.
func RunWindow(cfg HostConfig, newApp func(HAL) func() error) error {
	h := NewHost(cfg)
	defer h.Close()
	step := newApp(h)

	view := lcdview.View{Scale: windowScale}
	g := &hostGame{h: h, step: step, view: view, img: view.NewImage()}
	w, ht := view.Size()
	ebiten.SetWindowTitle("Bozzard (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*2, (ht+ledStrip*windowScale)*2)
	ebiten.SetTPS(200)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *Host
	step  func() error
	view  lcdview.View
	img   *image.RGBA
	lcdIm *ebiten.Image
}

func (g *hostGame) Update() error {
	pollKeyboard(g.h.panel)
	g.h.panel.Update()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.lcdIm == nil {
		w, h := g.view.Size()
		g.lcdIm = ebiten.NewImage(w, h)
	}
	phase := (g.h.t.Millis()/cursorMs)%2 == 0
	g.view.Draw(g.img, g.h.lcd, phase)
	g.lcdIm.WritePixels(g.img.Pix)
	screen.DrawImage(g.lcdIm, nil)

	w, h := g.view.Size()
	mask := g.h.LEDMask()
	pitch := w / len(ledColors)
	for i, c := range ledColors {
		if mask&(1<<i) == 0 {
			c = ledOff
		}
		x := i*pitch + (pitch-ledSize*windowScale/2)/2
		y := h + (ledStrip*windowScale-ledSize*windowScale/2)/2
		r := image.Rect(x, y, x+ledSize*windowScale/2, y+ledSize*windowScale/2)
		screen.SubImage(r).(*ebiten.Image).Fill(c)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.view.Size()
	return w, h + ledStrip*windowScale
}
