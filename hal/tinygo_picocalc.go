//go:build tinygo && baremetal && picocalc

package hal

import "time"

type picoCalcHAL struct {
	logger *uartLogger
	led    *pinLED
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
}

// New returns the PicoCalc HAL (Pico or Pico 2 on the PicoCalc
// carrier board).
func New() HAL {
	logger, led := initBoard()

	// Boot proceeds with stubs when the panel or keyboard is missing,
	// so the UART log stays reachable for diagnosis.
	var lcd *ili9488
	if l, err := initILI9488(); err == nil {
		lcd = l
	}

	var kbd Keyboard
	if kb, err := newPicoCalcKeyboard(); err == nil {
		kbd = kb
	} else {
		kbd = &stubKeyboard{}
	}

	return &picoCalcHAL{
		logger: logger,
		led:    led,
		fb:     newPicoCalcFramebuffer(lcd),
		kbd:    kbd,
		t:      newTinyGoTime(),
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) LED() LED         { return h.led }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *picoCalcHAL) Time() Time       { return h.t }

// picoCalcFramebuffer draws into RAM and pushes whole frames to the
// LCD on Present. lcd may be nil when panel bring-up failed.
type picoCalcFramebuffer struct {
	w   int
	h   int
	buf []byte
	lcd *ili9488
}

func newPicoCalcFramebuffer(lcd *ili9488) *picoCalcFramebuffer {
	const w, h = 320, 320
	return &picoCalcFramebuffer{w: w, h: h, buf: make([]byte, w*h*2), lcd: lcd}
}

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	p := packRGB565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *picoCalcFramebuffer) Present() error {
	if f.lcd == nil {
		return ErrNotImplemented
	}
	return f.lcd.flushRGB565(f.buf, f.w, f.h)
}

// picoCalcKeyboard polls the keyboard MCU every 2ms and fans events
// out on a buffered channel. Events are dropped when the OS falls
// behind; the input service regenerates repeats anyway.
type picoCalcKeyboard struct {
	ch chan KeyEvent
}

func newPicoCalcKeyboard() (*picoCalcKeyboard, error) {
	kbd, err := initI2CKeyboard()
	if err != nil {
		return nil, err
	}

	dev := &picoCalcKeyboard{ch: make(chan KeyEvent, 64)}
	go dev.pump(kbd)
	return dev, nil
}

func (k *picoCalcKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *picoCalcKeyboard) pump(kbd *i2cKeyboard) {
	defer close(k.ch)
	for {
		if ev, ok := kbd.readEvent(); ok {
			select {
			case k.ch <- ev:
			default:
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
}
