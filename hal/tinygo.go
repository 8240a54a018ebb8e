//go:build tinygo && baremetal && !picocalc

package hal

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
}

// New returns the generic Pico HAL: UART console and on-board LED,
// with the display and keyboard stubbed out. It exists so the OS can
// be flashed to a bare board and watched over serial.
func New() HAL {
	logger, led := initBoard()
	return &tinyGoHAL{
		logger: logger,
		led:    led,
		fb:     &stubFramebuffer{w: 320, h: 320},
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Time() Time       { return h.t }
