package hal

import (
	"sync"
	"sync/atomic"

	"bozzard/bozos/input"
)

// Pin is a digital input. machine.Pin satisfies it.
type Pin interface {
	Get() bool
}

// PinButtons turns raw pins into Buttons. A line's change time is the first
// time Level observed the new level, so Level should be called every tick.
type PinButtons struct {
	mu        sync.Mutex
	t         Time
	pins      [input.NumButtons]Pin
	activeLow [input.NumButtons]bool
	level     [input.NumButtons]bool
	changed   [input.NumButtons]uint32
}

// NewPinButtons reads button b from pins[b]. A nil pin reads as released.
func NewPinButtons(t Time, pins [input.NumButtons]Pin) *PinButtons {
	return &PinButtons{t: t, pins: pins}
}

// SetActiveLow marks b as pulled up, pressed when the pin reads low.
func (p *PinButtons) SetActiveLow(b input.Button, low bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeLow[b] = low
	if pin := p.pins[b]; pin != nil {
		p.level[b] = pin.Get() != low
	}
}

func (p *PinButtons) Level(b input.Button) (bool, uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pin := p.pins[b]
	if pin == nil {
		return false, 0
	}
	active := pin.Get() != p.activeLow[b]
	if active != p.level[b] {
		p.level[b] = active
		p.changed[b] = p.t.Millis()
	}
	return active, p.changed[b]
}

// VirtualPin is a pin set by software: a key on the host keyboard, a
// terminal keypress or a test.
type VirtualPin struct {
	level atomic.Bool
}

func (v *VirtualPin) Get() bool      { return v.level.Load() }
func (v *VirtualPin) Set(level bool) { v.level.Store(level) }

const (
	// TapMs is how long Tap holds a button, comfortably past the debounce.
	TapMs = 80
	// rotaryPulseMs is the width of the clock pulse Turn generates.
	rotaryPulseMs = 10
)

// VirtualPanel is the whole button panel on virtual pins. It can hold and
// release buttons, tap them for front-ends without key release events and
// generate the quadrature step of one knob detent.
type VirtualPanel struct {
	t    Time
	pins [input.NumButtons]VirtualPin
	btn  *PinButtons

	mu           sync.Mutex
	releaseAt    [input.NumButtons]uint32
	releaseArmed [input.NumButtons]bool
	turns        []bool
}

// NewVirtualPanel returns a panel with every button released.
func NewVirtualPanel(t Time) *VirtualPanel {
	v := &VirtualPanel{t: t}
	var pins [input.NumButtons]Pin
	for i := range v.pins {
		pins[i] = &v.pins[i]
	}
	v.btn = NewPinButtons(t, pins)
	return v
}

// Buttons is the panel as seen by the runtime.
func (v *VirtualPanel) Buttons() Buttons { return v.btn }

func (v *VirtualPanel) Hold(b input.Button) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.releaseArmed[b] = false
	v.pins[b].Set(true)
}

func (v *VirtualPanel) Release(b input.Button) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.releaseArmed[b] = false
	v.pins[b].Set(false)
}

// Tap presses b now and releases it TapMs later.
func (v *VirtualPanel) Tap(b input.Button) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pins[b].Set(true)
	v.releaseAt[b] = v.t.Millis() + TapMs
	v.releaseArmed[b] = true
}

// Turn queues one knob detent.
func (v *VirtualPanel) Turn(clockwise bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.turns = append(v.turns, clockwise)
}

// Update advances taps and queued turns. Call it once per tick before the
// runtime samples the buttons.
func (v *VirtualPanel) Update() {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.t.Millis()
	for b := range v.releaseArmed {
		if v.releaseArmed[b] && int32(now-v.releaseAt[b]) >= 0 {
			v.releaseArmed[b] = false
			v.pins[b].Set(false)
		}
	}

	clk := &v.pins[input.RotaryClock]
	switch {
	case clk.Get():
		if int32(now-v.releaseAt[input.RotaryClock]) >= 0 {
			clk.Set(false)
			v.releaseAt[input.RotaryClock] = now + rotaryPulseMs
		}
	case len(v.turns) > 0 && int32(now-v.releaseAt[input.RotaryClock]) >= 0:
		v.pins[input.RotaryData].Set(!v.turns[0])
		v.turns = v.turns[1:]
		clk.Set(true)
		v.releaseAt[input.RotaryClock] = now + rotaryPulseMs
	}
}
