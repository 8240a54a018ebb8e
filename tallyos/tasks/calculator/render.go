package calculator

import (
	"image/color"

	"tally/hal"
	"tally/tallyos/calc"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

func (t *Task) tapeY() int {
	return 16 + int(t.smallHeight) + int(t.mainHeight)
}

func (t *Task) keypadY() int {
	return t.tapeY() + tapeShown*int(t.smallHeight) + 10
}

// buildButtons lays out the memory strip and the main 4x5 grid below
// the display and tape. Cell edges are computed per index so the
// panel fills the framebuffer exactly regardless of its size.
func (t *Task) buildButtons() {
	t.buttons = t.buttons[:0]

	padY := t.keypadY()
	padH := t.h - padY
	if padH <= 0 {
		return
	}
	stripH := padH / 6

	strip := [...]struct {
		label string
		ev    calc.Event
	}{
		{"MC", calc.MemClear()},
		{"MR", calc.MemRecall()},
		{"M+", calc.MemAdd()},
		{"M-", calc.MemSub()},
		{"MS", calc.MemStore()},
		{"DEL", calc.Delete()},
	}
	for i, s := range strip {
		x0 := i * t.w / len(strip)
		x1 := (i + 1) * t.w / len(strip)
		t.buttons = append(t.buttons, button{
			x: x0, y: padY, w: x1 - x0, h: stripH,
			label: s.label, ev: s.ev, dim: true,
		})
	}

	grid := [5][4]struct {
		label string
		ev    calc.Event
	}{
		{{"C", calc.Clear()}, {"+/-", calc.ToggleSign()}, {"%", calc.Percent()}, {"/", calc.Operator(calc.OpDiv)}},
		{{"7", calc.Digit('7')}, {"8", calc.Digit('8')}, {"9", calc.Digit('9')}, {"x", calc.Operator(calc.OpMul)}},
		{{"4", calc.Digit('4')}, {"5", calc.Digit('5')}, {"6", calc.Digit('6')}, {"-", calc.Operator(calc.OpSub)}},
		{{"1", calc.Digit('1')}, {"2", calc.Digit('2')}, {"3", calc.Digit('3')}, {"+", calc.Operator(calc.OpAdd)}},
		{{"rt", calc.Sqrt()}, {"0", calc.Digit('0')}, {".", calc.Decimal()}, {"=", calc.Equals()}},
	}
	gy := padY + stripH
	gridH := padH - stripH
	for r := 0; r < len(grid); r++ {
		y0 := gy + r*gridH/len(grid)
		y1 := gy + (r+1)*gridH/len(grid)
		for c := 0; c < len(grid[r]); c++ {
			x0 := c * t.w / len(grid[r])
			x1 := (c + 1) * t.w / len(grid[r])
			cell := grid[r][c]
			t.buttons = append(t.buttons, button{
				x: x0, y: y0, w: x1 - x0, h: y1 - y0,
				label: cell.label, ev: cell.ev,
			})
		}
	}
}

func (t *Task) hitTest(x, y int) int {
	for i := range t.buttons {
		b := &t.buttons[i]
		if x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h {
			return i
		}
	}
	return -1
}

func (t *Task) render() {
	if !t.active || t.fb == nil || t.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := t.fb.Buffer()
	if buf == nil {
		return
	}

	clearRGB565(buf, rgb565From888(0x08, 0x0B, 0x10))
	t.renderDisplay(buf)
	t.renderTape(buf)
	t.renderKeypad(buf)

	_ = t.fb.Present()
}

func (t *Task) renderDisplay(buf []byte) {
	const margin = 6

	fillRectRGB565(buf, t.fb.StrideBytes(), 0, 0, t.w, t.tapeY(), rgb565From888(0x10, 0x14, 0x1E))

	top := 4
	if t.state.HasMemory() {
		t.drawText(t.fontSmall, t.smallHeight, margin, top, "M", color.RGBA{R: 0x9A, G: 0xC6, B: 0xFF, A: 0xFF})
	}
	if pending := t.state.Pending(); pending != "" {
		s := truncateToWidth(t.fontSmall, pending, t.w-2*margin)
		x := t.w - margin - textWidth(t.fontSmall, s)
		t.drawText(t.fontSmall, t.smallHeight, x, top, s, color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF})
	}

	entry := t.state.Display()
	col := color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	if t.state.IsError() {
		col = color.RGBA{R: 0xFF, G: 0x7F, B: 0x7F, A: 0xFF}
	}
	// Long entries drop to the key font before truncating.
	f, fh := t.fontMain, t.mainHeight
	if textWidth(f, entry) > t.w-2*margin {
		f, fh = t.fontKey, t.keyHeight
		entry = truncateToWidth(f, entry, t.w-2*margin)
	}
	y := top + int(t.smallHeight) + 2
	t.drawText(f, fh, t.w-margin-textWidth(f, entry), y, entry, col)
}

func (t *Task) renderTape(buf []byte) {
	y := t.tapeY()
	drawHLineRGB565(buf, t.fb.StrideBytes(), 0, t.w-1, y, rgb565From888(0x2B, 0x33, 0x44))

	lines := t.tape
	if len(lines) > tapeShown {
		lines = lines[len(lines)-tapeShown:]
	}
	yy := y + 3
	for _, line := range lines {
		s := truncateToWidth(t.fontSmall, line, t.w-12)
		t.drawText(t.fontSmall, t.smallHeight, 6, yy, s, color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF})
		yy += int(t.smallHeight) + 1
	}
}

func (t *Task) renderKeypad(buf []byte) {
	stride := t.fb.StrideBytes()
	border := rgb565From888(0x2B, 0x33, 0x44)

	for i := range t.buttons {
		b := &t.buttons[i]
		label := b.label
		if b.ev.Kind == calc.EvClear {
			label = t.state.ClearLabel()
		}

		if i == t.flashIdx && t.nowTick < t.flashUntil {
			d := &fbDisplayer{fb: t.fb}
			_ = d.FillRectangle(int16(b.x+1), int16(b.y+1), int16(b.w-2), int16(b.h-2), color.RGBA{R: 0x1A, G: 0x2D, B: 0x44, A: 0xFF})
		}
		drawRectOutlineRGB565(buf, stride, b.x, b.y, b.w, b.h, border)

		col := color.RGBA{R: 0xD6, G: 0xD6, B: 0xD6, A: 0xFF}
		f, fh := t.fontKey, t.keyHeight
		if b.dim {
			col = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
			f, fh = t.fontSmall, t.smallHeight
		}
		lw := textWidth(f, label)
		t.drawText(f, fh, b.x+(b.w-lw)/2, b.y+(b.h-int(fh))/2, label, col)
	}
}

func (t *Task) blank() {
	if t.fb == nil {
		return
	}
	t.fb.ClearRGB(0, 0, 0)
	_ = t.fb.Present()
}

func (t *Task) drawText(f tinyfont.Fonter, fh int16, x, y int, s string, c color.RGBA) {
	d := &fbDisplayer{fb: t.fb}
	tinyfont.WriteLine(d, f, int16(x), int16(y)+fh, s, c)
}

func truncateToWidth(f tinyfont.Fonter, s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	w, _ := tinyfont.LineWidth(f, s)
	if int(w) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		w, _ = tinyfont.LineWidth(f, string(r)+"..")
		if int(w) <= maxW {
			return string(r) + ".."
		}
	}
	return ""
}

func textWidth(f tinyfont.Fonter, s string) int {
	w, _ := tinyfont.LineWidth(f, s)
	return int(w)
}

type fbDisplayer struct {
	fb hal.Framebuffer
}

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}
	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}
	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplayer) Display() error { return nil }

func (d *fbDisplayer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	h := d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplayer) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clearRGB565(buf []byte, pixel uint16) {
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

func fillRectRGB565(buf []byte, stride, x0, y0, w, h int, pixel uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := 0; y < h; y++ {
		row := (y0+y)*stride + x0*2
		for x := 0; x < w; x++ {
			off := row + x*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func drawRectOutlineRGB565(buf []byte, stride, x0, y0, w, h int, pixel uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	drawHLineRGB565(buf, stride, x0, x0+w-1, y0, pixel)
	drawHLineRGB565(buf, stride, x0, x0+w-1, y0+h-1, pixel)
	drawVLineRGB565(buf, stride, x0, y0, y0+h-1, pixel)
	drawVLineRGB565(buf, stride, x0+w-1, y0, y0+h-1, pixel)
}

func drawHLineRGB565(buf []byte, stride, x0, x1, y int, pixel uint16) {
	if y < 0 || stride <= 0 {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	row := y * stride
	for x := x0; x <= x1; x++ {
		off := row + x*2
		if off < 0 || off+1 >= len(buf) {
			continue
		}
		buf[off] = lo
		buf[off+1] = hi
	}
}

func drawVLineRGB565(buf []byte, stride, x, y0, y1 int, pixel uint16) {
	if x < 0 || stride <= 0 {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := y0; y <= y1; y++ {
		off := y*stride + x*2
		if off < 0 || off+1 >= len(buf) {
			continue
		}
		buf[off] = lo
		buf[off+1] = hi
	}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
