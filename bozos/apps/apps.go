// Package apps is the table of built-in apps the console boots with.
package apps

import (
	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/backlight"
	"bozzard/bozos/apps/buzzround"
	"bozzard/bozos/apps/chessclock"
	"bozzard/bozos/apps/conundrum"
	"bozzard/bozos/apps/crash"
	"bozzard/bozos/apps/mainmenu"
	"bozzard/bozos/apps/options"
	"bozzard/bozos/apps/pccontrol"
	"bozzard/bozos/apps/sysinfo"
	"bozzard/bozos/kernel"
)

// Persistent regions. Offsets are relative to the start of app storage and
// must stay put across releases.
const (
	buzzRoundEEPROM  = 0
	chessClockEEPROM = 8
)

// Table lists every built-in app in menu order.
func Table() []kernel.App {
	return []kernel.App{
		{ID: appid.MainMenu, Name: "Main menu", Init: mainmenu.Init},
		{ID: appid.BuzzerRound, Name: "Buzzer round", Init: buzzround.Init, Flags: kernel.FlagMain,
			EEPROMStart: buzzRoundEEPROM, EEPROMLength: buzzround.RegionBytes},
		{ID: appid.Conundrum, Name: "Conundrum", Init: conundrum.Init, Flags: kernel.FlagMain},
		{ID: appid.ChessClocks, Name: "Chess clocks", Init: chessclock.Init, Flags: kernel.FlagMain,
			EEPROMStart: chessClockEEPROM, EEPROMLength: chessclock.RegionBytes},
		{ID: appid.PCControl, Name: "PC control", Init: pccontrol.Init, Flags: kernel.FlagMain | kernel.FlagNoSleep},
		{ID: appid.Backlight, Name: "Backlight", Init: backlight.Init, Flags: kernel.FlagMain},
		{ID: appid.SysInfo, Name: "System info", Init: sysinfo.Init, Flags: kernel.FlagMain},
		{ID: appid.Options, Name: "Options", Init: options.Init},
		{ID: appid.Crash, Name: "Crash", Init: crash.Init},
	}
}
