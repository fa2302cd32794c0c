package conundrum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/apptest"
	"bozzard/bozos/input"
	"bozzard/bozos/kernel"
)

func start(t *testing.T) *apptest.Harness {
	t.Helper()
	host := &apptest.Host{}
	h := apptest.New(t, host.App(), kernel.App{ID: appid.Conundrum, Name: "Conundrum", Init: Init})
	host.Call(t, appid.Conundrum, nil)
	h.Advance(20)
	return h
}

func TestBuzzStopsClock(t *testing.T) {
	h := start(t)
	require.Equal(t, "Conundrum 0:30.0", h.Screen()[0])

	h.Press(input.Play)
	h.Advance(10000)
	h.Press(input.Buzzer1)
	require.Equal(t, "    Buzzer 2", h.Screen()[1])
	require.Equal(t, uint8(1<<1), h.LEDs())

	frozen := h.Screen()[0]
	h.Advance(3000)
	require.Equal(t, frozen, h.Screen()[0])
	require.Equal(t, "Conundrum 0:19.9", frozen)
}

func TestTimeUp(t *testing.T) {
	h := start(t)
	h.Press(input.Play)
	h.Advance(DurationMs)
	h.RequireScreen("Conundrum 0:00.0", "    Time up")
	require.Equal(t, uint8(0x0F), h.LEDs())

	h.Press(input.Play)
	h.RequireScreen("Conundrum 0:00.0", "    Time up")

	h.Press(input.Reset)
	require.Equal(t, "Conundrum 0:30.0", h.Screen()[0])
	require.Equal(t, uint8(0), h.LEDs())
}
