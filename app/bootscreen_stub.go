//go:build !(tinygo && bootdebug)

package app

import "tally/hal"

func bootScreen(h hal.HAL, msg string) {}

func bootDiagStart(h hal.HAL) {}
