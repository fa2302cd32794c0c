// Package backlight toggles the LCD backlight and returns straight away.
package backlight

import "bozzard/bozos/kernel"

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	d := ctx.Display()
	d.SetBacklight(!d.Backlight())
	_ = ctx.Exit(0)
}
