//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostSpecialKeys maps window keys that carry no input character.
var hostSpecialKeys = [...]struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyNumpadEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyTab, KeyTab},
	{ebiten.KeyDelete, KeyDelete},
	{ebiten.KeyHome, KeyHome},
	{ebiten.KeyEnd, KeyEnd},
	{ebiten.KeyF1, KeyF1},
	{ebiten.KeyF2, KeyF2},
	{ebiten.KeyF3, KeyF3},
}

// hostCtrlChords maps Ctrl+letter to the control byte the key protocol
// carries for the memory register and quit shortcuts.
var hostCtrlChords = [...]struct {
	key ebiten.Key
	b   rune
}{
	{ebiten.KeyL, 0x0C}, // MC
	{ebiten.KeyR, 0x12}, // MR
	{ebiten.KeyP, 0x10}, // M+
	{ebiten.KeyQ, 0x11}, // M-
	{ebiten.KeyS, 0x13}, // MS
	{ebiten.KeyC, 0x03}, // quit
}

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// poll runs once per window frame. Events are dropped rather than
// queued when the channel is full.
func (k *hostKeyboard) poll() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl {
		for _, c := range hostCtrlChords {
			if inpututil.IsKeyJustPressed(c.key) {
				k.emit(KeyEvent{Press: true, Rune: c.b})
			}
		}
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		k.emit(KeyEvent{Press: true, Rune: r})
	}

	for _, s := range hostSpecialKeys {
		if inpututil.IsKeyJustPressed(s.key) {
			k.emit(KeyEvent{Code: s.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(s.key) {
			k.emit(KeyEvent{Code: s.code, Press: false})
		}
	}
}

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}
