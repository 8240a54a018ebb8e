package app

import (
	"fmt"
	"image/color"
	"strings"

	"tally/hal"
	"tally/tallyos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// installPanicHandler routes kernel panics to the log and paints a
// diagnostic screen. The handler never returns; a wedged appliance
// holds the screen so the panic stays readable.
func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		logPanic(h, info)
		if fb := diagFramebuffer(h); fb != nil {
			renderPanicScreen(fb, info)
		}
		select {}
	})
}

// diagFramebuffer digs the framebuffer out of the HAL, or returns nil.
func diagFramebuffer(h hal.HAL) hal.Framebuffer {
	disp := h.Display()
	if disp == nil {
		return nil
	}
	return disp.Framebuffer()
}

func logPanic(h hal.HAL, info kernel.PanicInfo) {
	l := h.Logger()
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf("Tally Panic: task=%d panic=%v", info.TaskID, info.Value))
	for _, line := range stackLines(info.Stack) {
		l.WriteLineString(line)
	}
}

func renderPanicScreen(fb hal.Framebuffer, info kernel.PanicInfo) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	cellH := int16(font.GetYAdvance())
	// The baseline sits two pixels above the cell bottom so descenders
	// stay inside the line.
	baseline := cellH - 2
	_, adv := tinyfont.LineWidth(font, "0")
	cellW := int16(adv)
	if cellW <= 0 || cellH <= 0 {
		_ = fb.Present()
		return
	}

	d := diagDisplay{fb: fb}
	fg := color.RGBA{A: 255}

	cols := int16(fb.Width()) / cellW
	if cols <= 0 {
		cols = 1
	}
	maxY := int16(fb.Height())

	y := int16(0)
	for _, line := range panicLines(info) {
		for len(line) > 0 && y+cellH <= maxY {
			chunk, rest := takeRunes(line, cols)
			d.drawString(font, cellW, 0, y+baseline, chunk, fg)
			y += cellH
			line = strings.TrimLeft(rest, " ")
		}
		if y+cellH > maxY {
			break
		}
	}

	_ = fb.Present()
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"Tally Panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	stack := stackLines(info.Stack)
	if len(stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	return append(lines, stack...)
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// diagDisplay adapts a framebuffer to tinyfont's displayer interface
// for the panic and boot screens, which draw before any task runs.
type diagDisplay struct {
	fb hal.Framebuffer
}

func (d diagDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d diagDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}
	if x < 0 || y < 0 || int(x) >= d.fb.Width() || int(y) >= d.fb.Height() {
		return
	}

	p := uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
	off := int(y)*d.fb.StrideBytes() + int(x)*2
	if off+1 >= len(buf) {
		return
	}
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func (d diagDisplay) Display() error { return nil }

// drawString lays runes out on a fixed advance so columns line up with
// the wrap math in takeRunes.
func (d diagDisplay) drawString(font tinyfont.Fonter, adv int16, x, baselineY int16, s string, fg color.RGBA) {
	for _, r := range s {
		tinyfont.DrawChar(d, font, x, baselineY, r, fg)
		x += adv
	}
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 {
		return "", s
	}
	var count int16
	for i := range s {
		if count == n {
			return s[:i], s[i:]
		}
		count++
	}
	return s, ""
}
