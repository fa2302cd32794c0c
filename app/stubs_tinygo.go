//go:build tinygo

package app

import (
	"bozzard/bozos/kernel"
	"bozzard/hal"
	"bozzard/internal/config"
)

// Metrics and the scoreboard mirror need a host network stack and are left
// out of firmware builds.

type metrics struct{ kernel.NopObserver }

func newMetrics(*config.Config, hal.Logger) *metrics { return nil }

func (*metrics) OnCrash(kernel.CrashInfo) {}
func (*metrics) Close()                   {}

type scoreboard struct{ kernel.NopObserver }

func newScoreboard(*config.Config, *System, hal.CharLCD, hal.Logger) (*scoreboard, error) {
	return nil, nil
}

func (*scoreboard) Close() {}
