package hal

import (
	"testing"

	"bozzard/bozos/input"
)

type fakeTime struct{ ms uint32 }

func (f *fakeTime) Millis() uint32 { return f.ms }

func TestPinButtonsStampsChanges(t *testing.T) {
	clk := &fakeTime{ms: 100}
	var pin VirtualPin
	var pins [input.NumButtons]Pin
	pins[input.Play] = &pin
	b := NewPinButtons(clk, pins)

	if active, _ := b.Level(input.Play); active {
		t.Fatal("expected released")
	}
	pin.Set(true)
	clk.ms = 150
	active, at := b.Level(input.Play)
	if !active || at != 150 {
		t.Fatalf("Level() = %v, %d, want true, 150", active, at)
	}
	clk.ms = 400
	if _, at := b.Level(input.Play); at != 150 {
		t.Fatalf("change time moved to %d", at)
	}
	if active, at := b.Level(input.Yellow); active || at != 0 {
		t.Fatalf("unwired pin = %v, %d", active, at)
	}
}

func TestPinButtonsActiveLow(t *testing.T) {
	clk := &fakeTime{}
	var pin VirtualPin
	pin.Set(true)
	var pins [input.NumButtons]Pin
	pins[input.Buzzer0] = &pin
	b := NewPinButtons(clk, pins)
	b.SetActiveLow(input.Buzzer0, true)

	if active, _ := b.Level(input.Buzzer0); active {
		t.Fatal("pulled-up pin should read released")
	}
	clk.ms = 10
	pin.Set(false)
	if active, at := b.Level(input.Buzzer0); !active || at != 10 {
		t.Fatalf("Level() = %v, %d, want true, 10", active, at)
	}
}

func TestVirtualPanelTapAndTurn(t *testing.T) {
	clk := &fakeTime{ms: 1000}
	v := NewVirtualPanel(clk)
	btn := v.Buttons()

	v.Tap(input.Reset)
	if active, _ := btn.Level(input.Reset); !active {
		t.Fatal("tap should press immediately")
	}
	clk.ms += TapMs - 1
	v.Update()
	if active, _ := btn.Level(input.Reset); !active {
		t.Fatal("released too early")
	}
	clk.ms++
	v.Update()
	if active, _ := btn.Level(input.Reset); active {
		t.Fatal("tap should release after TapMs")
	}

	v.Turn(false)
	v.Update()
	clkActive, _ := btn.Level(input.RotaryClock)
	data, _ := btn.Level(input.RotaryData)
	if !clkActive || !data {
		t.Fatalf("anticlockwise step: clock=%v data=%v, want true true", clkActive, data)
	}
	clk.ms += rotaryPulseMs
	v.Update()
	if active, _ := btn.Level(input.RotaryClock); active {
		t.Fatal("clock pulse should end")
	}
}
