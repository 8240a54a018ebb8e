//go:build !tinygo && cgo

package hal

import (
	"image"
	"tally/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window that presents the framebuffer at 2x
// and feeds keyboard and mouse input back into the OS. It blocks until
// the window closes or the app step returns an error.
func RunWindow(newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	g := &hostGame{h: h, step: newApp(h)}

	ebiten.SetWindowTitle("Tally (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.w*2, h.fb.h*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

// Update runs at the window tick rate and doubles as the OS heartbeat:
// input polls feed the HAL channels and one base tick step elapses.
func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	g.ensureImages(fb.w, fb.h, len(fb.buf))

	fb.snapshotRGB565(g.scratch)
	expandRGB565(g.img.Pix, g.scratch)

	g.fbImg.ReplacePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) ensureImages(w, h, bufLen int) {
	if g.img != nil && g.img.Bounds().Dx() == w && g.img.Bounds().Dy() == h {
		return
	}
	g.img = image.NewRGBA(image.Rect(0, 0, w, h))
	g.scratch = make([]byte, bufLen)
	if g.fbImg != nil {
		g.fbImg.Deallocate()
	}
	g.fbImg = ebiten.NewImage(w, h)
}

// expandRGB565 converts little-endian RGB565 pixels into RGBA bytes.
func expandRGB565(dst, src []byte) {
	n := len(src) / 2
	if m := len(dst) / 4; n > m {
		n = m
	}
	for i := 0; i < n; i++ {
		r, g, b := unpackRGB565(uint16(src[2*i]) | uint16(src[2*i+1])<<8)
		dst[4*i+0] = r
		dst[4*i+1] = g
		dst[4*i+2] = b
		dst[4*i+3] = 0xFF
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.w, g.h.fb.h
}
