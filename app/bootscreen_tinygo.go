//go:build tinygo && bootdebug

package app

import (
	"image/color"

	"tally/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// bootScreen paints the current boot stage so a unit with a dead UART
// still shows how far bring-up got.
func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	if h == nil {
		return
	}
	fb := diagFramebuffer(h)
	if fb == nil {
		return
	}

	fb.ClearRGB(0, 0, 0)

	font := &proggy.TinySZ8pt7b
	line := int16(font.GetYAdvance()) + 4
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	d := diagDisplay{fb: fb}
	tinyfont.WriteLine(d, font, 0, line, "Tally boot", white)
	tinyfont.WriteLine(d, font, 0, 2*line, msg, white)
	_ = fb.Present()
}
