// Package appid numbers the built-in apps. The numbering is part of the
// persistent layout and must not be reordered.
package appid

import "bozzard/bozos/kernel"

const (
	MainMenu    kernel.AppID = kernel.AppMainMenu
	PCControl   kernel.AppID = 1
	Conundrum   kernel.AppID = 2
	BuzzerRound kernel.AppID = 3
	ChessClocks kernel.AppID = 4
	Backlight   kernel.AppID = 5
	SysInfo     kernel.AppID = 6
	Options     kernel.AppID = 7
	Crash       kernel.AppID = 8
)
