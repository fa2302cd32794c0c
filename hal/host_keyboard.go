//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"bozzard/bozos/input"
)

// keyMap binds desktop keys to panel buttons. Holding a key holds the
// button.
var keyMap = []struct {
	key ebiten.Key
	btn input.Button
}{
	{ebiten.Key1, input.Buzzer0},
	{ebiten.Key2, input.Buzzer1},
	{ebiten.Key3, input.Buzzer2},
	{ebiten.Key4, input.Buzzer3},
	{ebiten.KeySpace, input.Play},
	{ebiten.KeyP, input.Play},
	{ebiten.KeyY, input.Yellow},
	{ebiten.KeyR, input.Reset},
	{ebiten.KeyEnter, input.RotaryKey},
}

func pollKeyboard(p *VirtualPanel) {
	for _, m := range keyMap {
		if inpututil.IsKeyJustPressed(m.key) {
			p.Hold(m.btn)
		}
		if inpututil.IsKeyJustReleased(m.key) {
			p.Release(m.btn)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		p.Turn(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		p.Turn(false)
	}
	_, wheel := ebiten.Wheel()
	switch {
	case wheel < 0:
		p.Turn(true)
	case wheel > 0:
		p.Turn(false)
	}
}
