package apps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/apptest"
	"bozzard/bozos/input"
	"bozzard/bozos/kernel"
)

func TestTableIsValid(t *testing.T) {
	seen := map[kernel.AppID]bool{}
	end := 0
	for _, a := range Table() {
		require.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
		require.LessOrEqual(t, len(a.Name), kernel.MaxAppName)
		if a.EEPROMLength > 0 {
			require.GreaterOrEqual(t, int(a.EEPROMStart), end, "%s overlaps", a.Name)
			end = int(a.EEPROMStart + a.EEPROMLength)
		}
	}
	require.True(t, seen[appid.MainMenu])
}

func TestMainMenuScrollsAndLaunches(t *testing.T) {
	h := apptest.New(t, Table()...)
	require.Equal(t, "\x7f Buzzer round \x7e", h.Screen()[0])
	require.Equal(t, "1/6 \x02 start", h.Screen()[1])

	h.Turn(false)
	require.Equal(t, "6/6 \x02 start", h.Screen()[1])
	require.Contains(t, h.Screen()[0], "System info")

	h.Press(input.Play)
	require.Equal(t, 2, h.Kernel.Depth())
	h.RequireScreen("Bozzard", "v1.2.3")

	h.Press(input.RotaryKey)
	require.Equal(t, 1, h.Kernel.Depth())
	require.Equal(t, "6/6 \x02 start", h.Screen()[1])
}

func TestMainMenuRunsBacklight(t *testing.T) {
	h := apptest.New(t, Table()...)
	h.TurnN(4)
	require.Contains(t, h.Screen()[0], "Backlight")
	h.Press(input.Play)
	require.False(t, h.LCD.Backlight())
	require.Equal(t, 1, h.Kernel.Depth())
	require.Empty(t, h.Crashes)
}
