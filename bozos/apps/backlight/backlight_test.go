package backlight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/apptest"
	"bozzard/bozos/kernel"
)

func TestToggles(t *testing.T) {
	host := &apptest.Host{}
	h := apptest.New(t, host.App(), kernel.App{ID: appid.Backlight, Name: "Backlight", Init: Init})
	require.True(t, h.LCD.Backlight())

	host.Call(t, appid.Backlight, nil)
	require.False(t, h.LCD.Backlight())
	require.Equal(t, 1, h.Kernel.Depth())

	host.Call(t, appid.Backlight, nil)
	require.True(t, h.LCD.Backlight())
	require.Equal(t, []int{0, 0}, host.Returns)
}
