//go:build !(tinygo && bootdebug)

package app

import "bozzard/hal"

func bootDiagSetStep(string)     {}
func bootDiagStart(hal.HAL)      {}
func bootScreen(hal.HAL, string) {}
