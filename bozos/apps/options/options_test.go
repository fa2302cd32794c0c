package options

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/apps/apptest"
	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/ui"
	"bozzard/bozos/display"
	"bozzard/bozos/input"
	"bozzard/bozos/kernel"
)

func start(t *testing.T, m *Menu) (*apptest.Harness, *apptest.Host) {
	t.Helper()
	host := &apptest.Host{}
	h := apptest.New(t, host.App(), kernel.App{ID: appid.Options, Name: "Options", Init: Init})
	host.Call(t, appid.Options, m)
	h.Advance(20)
	return h, host
}

func arrows(s string) string {
	return string(display.ArrowRight) + s + string(display.ArrowLeft)
}

func TestAdjustNumberCyclesThroughNull(t *testing.T) {
	p := &Page{Type: Number, Min: 1, Max: 3, NullValue: "Off"}
	v := p.Null()
	var seen []int32
	for i := 0; i < 5; i++ {
		v = adjust(p, v, true, 1)
		seen = append(seen, v)
	}
	require.Equal(t, []int32{1, 2, 3, 0, 1}, seen)
	require.Equal(t, int32(3), adjust(p, p.Null(), false, 1))
	require.Equal(t, p.Null(), adjust(p, 1, false, 1))

	plain := &Page{Type: Number, Min: 0, Max: 10, Step: 5}
	require.Equal(t, int32(0), adjust(plain, 10, true, 1))
	require.Equal(t, int32(10), adjust(plain, 0, false, 1))
}

func TestAdjustOtherTypes(t *testing.T) {
	yn := &Page{Type: YesNo}
	require.Equal(t, int32(1), adjust(yn, 0, true, 1))
	require.Equal(t, int32(0), adjust(yn, 1, false, 1))

	list := &Page{Type: List, Choices: []string{"a", "b", "c"}}
	require.Equal(t, int32(0), adjust(list, 2, true, 1))
	require.Equal(t, int32(2), adjust(list, 0, false, 1))

	clk := &Page{Type: ClockMinSec, Min: 10, Max: 600}
	require.Equal(t, int32(70), adjust(clk, 10, true, 60))
	require.Equal(t, int32(10), adjust(clk, 30, false, 60))
	require.Equal(t, int32(600), adjust(clk, 590, true, 60))
}

func TestValueText(t *testing.T) {
	require.Equal(t, "5:00", valueText(&Page{Type: ClockMinSec}, 300, false, 0))
	require.Equal(t, "1:02:03", valueText(&Page{Type: ClockHrMinSec}, 3723, false, 0))
	require.Equal(t, "1:"+arrows("02"), valueText(&Page{Type: ClockHrMin}, 3720, true, 1))
	require.Equal(t, "90", valueText(&Page{Type: ClockSec}, 90, false, 0))
	require.Equal(t, "Off", valueText(&Page{Type: Number, Min: 1, Max: 3, NullValue: "Off"}, 0, false, 0))
	require.Equal(t, arrows("Yes"), valueText(&Page{Type: YesNo}, 1, true, 0))
	require.True(t, ClockMinSec.IsClock())
	require.False(t, Number.IsClock())
}

func TestEditAndAccept(t *testing.T) {
	m := &Menu{
		Pages: []Page{
			{Name: "Lockout", Type: YesNo},
			{Name: "Hidden", Type: Number, Max: 9},
			{Name: "Timer", Type: Number, Min: 1, Max: 30, NullValue: "None"},
		},
		Disabled: 1 << 1,
		Results:  []int32{0, 4, 5},
	}
	h, host := start(t, m)
	h.RequireScreen("Lockout", "       No")

	h.Press(input.RotaryKey)
	h.Turn(true)
	h.Press(input.RotaryKey)
	h.RequireScreen("Lockout", "      Yes")

	h.Turn(true)
	h.RequireScreen("Timer", "       5")

	h.Press(input.RotaryKey)
	h.TurnN(-5)
	h.Press(input.RotaryKey)
	h.RequireScreen("Timer", "      None")

	h.Turn(true)
	h.RequireScreen(ui.Glyph(display.CharPlay)+" accept", ui.Glyph(display.CharReset)+" discard")
	h.Turn(true)
	h.RequireScreen(ui.Glyph(display.CharPlay)+" accept", ui.Glyph(display.CharReset)+" discard")

	h.Press(input.Play)
	require.Equal(t, []int{StatusAccept}, host.Returns)
	require.Equal(t, []int32{1, 4, 0}, m.Results)
	require.Equal(t, 1, h.Kernel.Depth())
	// Only the kernel's call trail is left.
	require.Equal(t, 1, h.Kernel.Arena().Outstanding())
}

func TestDiscardLeavesResults(t *testing.T) {
	m := &Menu{Pages: []Page{{Name: "Rounds", Type: Number, Min: 1, Max: 9}}, Results: []int32{3}}
	h, host := start(t, m)
	h.Press(input.RotaryKey)
	h.Turn(true)
	h.RequireScreen("Rounds", "      "+arrows("4"))
	h.Press(input.Reset)

	require.Equal(t, []int{StatusDiscard}, host.Returns)
	require.Equal(t, []int32{3}, m.Results)
}

func TestClockFieldsEditedInTurn(t *testing.T) {
	m := &Menu{Pages: []Page{{Name: "Time", Type: ClockMinSec}}, Results: []int32{65}, OneShot: true}
	h, host := start(t, m)
	h.RequireScreen("Time", "     "+arrows("1")+":05")

	h.Turn(true)
	h.Press(input.RotaryKey)
	h.Turn(false)
	h.Turn(false)
	require.Empty(t, host.Returns)
	h.Press(input.RotaryKey)

	require.Equal(t, []int{StatusAccept}, host.Returns)
	require.Equal(t, []int32{123}, m.Results)
}

func TestInvalidParam(t *testing.T) {
	_, host := start(t, nil)
	require.Equal(t, []int{StatusInvalid}, host.Returns)
}
