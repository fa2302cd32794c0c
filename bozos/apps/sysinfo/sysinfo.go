// Package sysinfo shows version, battery, memory and uptime, and offers the
// global EEPROM reset and the crash test.
package sysinfo

import (
	"fmt"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/ui"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
)

const refreshMs = 500

type page uint8

const (
	pageVersion page = iota
	pageBattery
	pageMemory
	pageUptime
	pageReset
	pageCrash

	numPages
)

type info struct {
	ctx    *kernel.Context
	page   page
	status string
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	s := &info{ctx: ctx}
	ctx.OnRotary(func(cw bool) {
		if cw {
			s.page = (s.page + 1) % numPages
		} else {
			s.page = (s.page + numPages - 1) % numPages
		}
		s.status = ""
		s.draw()
	})
	ctx.OnPlay(s.play)
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	s.tick()
}

// VersionString unpacks major<<24 | minor<<16 | release<<8.
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>24, (v>>16)&0xFF, (v>>8)&0xFF)
}

func (s *info) tick() {
	s.ctx.SetAlarm(refreshMs, s.tick)
	s.draw()
}

func (s *info) play() {
	switch s.page {
	case pageReset:
		if err := s.ctx.ResetEEPROM(); err != nil {
			s.status = "Failed"
		} else {
			s.status = "Done"
		}
		s.draw()
	case pageCrash:
		if err := s.ctx.Call(appid.Crash, nil, func(int) { s.draw() }); err != nil {
			s.status = "Unavailable"
			s.draw()
		}
	}
}

func (s *info) draw() {
	var top, bottom string
	switch s.page {
	case pageVersion:
		top, bottom = "Bozzard", "v"+VersionString(s.ctx.Version())
	case pageBattery:
		mv := s.ctx.Battery()
		top, bottom = "Battery", fmt.Sprintf("%d.%02dV", mv/1000, (mv%1000)/10)
		if mv == 0 {
			bottom = "Unknown"
		}
	case pageMemory:
		health := "OK"
		if s.ctx.MemoryCheck() != nil {
			health = "BAD"
		}
		top, bottom = "Memory free", fmt.Sprintf("%d bytes %s", s.ctx.MemoryFree(), health)
	case pageUptime:
		top, bottom = "Uptime", display.FormatClock(int32(s.ctx.Now()&0x7FFFFFFF), false)
	case pageReset:
		top, bottom = "Reset EEPROM", ui.Glyph(display.CharPlay)+" to erase"
	case pageCrash:
		top, bottom = "Crash test", ui.Glyph(display.CharPlay)+" to start"
	}
	if s.status != "" {
		bottom = s.status
	}
	_ = ui.Screen(s.ctx.Display(), top, bottom)
}
