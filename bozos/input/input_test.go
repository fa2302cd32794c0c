package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLines struct {
	active  [NumButtons]bool
	changed [NumButtons]uint32
}

func (f *fakeLines) set(b Button, active bool, at uint32) {
	f.active[b] = active
	f.changed[b] = at
}

func (f *fakeLines) Level(b Button) (bool, uint32) { return f.active[b], f.changed[b] }

func TestFilterHysteresis(t *testing.T) {
	f := Filter{Threshold: 20}

	require.Equal(t, EdgeNone, f.Update(105, true, 100))
	require.Equal(t, EdgePress, f.Update(120, true, 100))
	require.Equal(t, EdgeNone, f.Update(130, true, 100))
	pressed, since := f.Pressed()
	require.True(t, pressed)
	require.Equal(t, uint32(100), since)

	// A short bounce low does not release.
	require.Equal(t, EdgeNone, f.Update(140, false, 135))
	require.Equal(t, EdgeNone, f.Update(150, true, 145))
	pressed, _ = f.Pressed()
	require.True(t, pressed)

	require.Equal(t, EdgeNone, f.Update(210, false, 200))
	require.Equal(t, EdgeRelease, f.Update(220, false, 200))
	pressed, _ = f.Pressed()
	require.False(t, pressed)
}

func TestPanelPressEvents(t *testing.T) {
	src := &fakeLines{}
	p := NewPanel(20, 2)

	src.set(Buzzer2, true, 10)
	src.set(Play, true, 15)
	require.Empty(t, p.Poll(25, src))

	evs := p.Poll(35, src)
	require.Equal(t, []Event{
		{Kind: EventPress, Button: Buzzer2},
		{Kind: EventPress, Button: Play},
	}, evs)

	require.Empty(t, p.Poll(100, src))
	pressed, since := p.Pressed(Buzzer2)
	require.True(t, pressed)
	require.Equal(t, uint32(10), since)
}

func TestPanelRotaryDirection(t *testing.T) {
	src := &fakeLines{}
	p := NewPanel(20, 2)

	src.set(RotaryClock, true, 50)
	evs := p.Poll(52, src)
	require.Equal(t, []Event{{Kind: EventRotary, Button: RotaryClock, Clockwise: true}}, evs)

	src.set(RotaryClock, false, 60)
	require.Empty(t, p.Poll(62, src))

	src.set(RotaryData, true, 70)
	src.set(RotaryClock, true, 71)
	evs = p.Poll(73, src)
	require.Equal(t, []Event{{Kind: EventRotary, Button: RotaryClock, Clockwise: false}}, evs)
}

func TestButtonNames(t *testing.T) {
	require.Equal(t, "buzzer3", Buzzer(3).String())
	require.True(t, Buzzer3.IsBuzzer())
	require.False(t, Play.IsBuzzer())
	require.Equal(t, "unknown", NumButtons.String())
}
