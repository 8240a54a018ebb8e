//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch chan PointerEvent
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) poll() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.emit(true)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		p.emit(false)
	}
}

func (p *hostPointer) emit(press bool) {
	// CursorPosition is in layout coordinates, which match the
	// framebuffer because Layout returns the framebuffer size.
	x, y := ebiten.CursorPosition()
	select {
	case p.ch <- PointerEvent{X: x, Y: y, Press: press}:
	default:
	}
}
