//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

// The keyboard MCU answers command 0x09 with two bytes per poll: an
// event type (down/held/up) and a key code.
const (
	picoCalcKbdAddr uint16 = 0x1F
	picoCalcKbdCmd         = 0x09
)

const (
	picoCalcKeyAlt       byte = 0xA1
	picoCalcKeyBackspace byte = 0x08
	picoCalcKeyCtrl      byte = 0xA5
	picoCalcKeyDel       byte = 0xD4
	picoCalcKeyEnd       byte = 0xD5
	picoCalcKeyEsc       byte = 0xB1
	picoCalcKeyF1        byte = 0x81
	picoCalcKeyF2        byte = 0x82
	picoCalcKeyF3        byte = 0x83
	picoCalcKeyHome      byte = 0xD2
	picoCalcKeyIns       byte = 0xD1
	picoCalcKeyLeft      byte = 0xB4
	picoCalcKeyRight     byte = 0xB7
	picoCalcKeyUp        byte = 0xB5
	picoCalcKeyDown      byte = 0xB6
)

type i2cKeyboard struct {
	i2c   *machine.I2C
	write [1]byte
	read  [2]byte

	ctrlDown bool
}

func initI2CKeyboard() (*i2cKeyboard, error) {
	// The original PicoCalc wiring uses I2C1, but some TinyGo targets
	// expose only I2C0 on these pins.
	for _, bus := range []*machine.I2C{machine.I2C1, machine.I2C0} {
		if bus == nil {
			continue
		}
		for _, freq := range []uint32{100_000, 400_000} {
			if err := bus.Configure(machine.I2CConfig{
				SCL:       machine.GP7,
				SDA:       machine.GP6,
				Frequency: freq,
			}); err != nil {
				continue
			}

			k := &i2cKeyboard{i2c: bus, write: [1]byte{picoCalcKbdCmd}}

			// The keyboard MCU can be slow to come up after power-on,
			// so probe for a while before giving up on this bus.
			for i := 0; i < 50; i++ {
				if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err == nil {
					return k, nil
				}
				time.Sleep(10 * time.Millisecond)
			}
		}
	}

	return nil, errors.New("keyboard: I2C unavailable")
}

func (k *i2cKeyboard) readEvent() (KeyEvent, bool) {
	if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err != nil {
		return KeyEvent{}, false
	}

	state, code := k.read[0], k.read[1]
	switch state {
	case 0x01: // down
		return k.translate(code, true)
	case 0x02: // held; repeat lives in the input service, only ctrl matters here
		if code == picoCalcKeyCtrl {
			k.ctrlDown = true
		}
		return KeyEvent{}, false
	case 0x03: // up
		return k.translate(code, false)
	}
	return KeyEvent{}, false
}

func (k *i2cKeyboard) translate(code byte, press bool) (KeyEvent, bool) {
	switch code {
	case picoCalcKeyCtrl:
		k.ctrlDown = press
		return KeyEvent{}, false
	case picoCalcKeyAlt:
		// Alt has no binding; swallow it so 0xA1 never leaks as a rune.
		return KeyEvent{}, false
	}

	if !press {
		return KeyEvent{Press: false, Code: mapPicoCalcKey(code)}, true
	}

	if kc := mapPicoCalcKey(code); kc != KeyUnknown {
		return KeyEvent{Press: true, Code: kc}, true
	}

	switch code {
	case 0:
		return KeyEvent{}, false
	case '\r', '\n':
		return KeyEvent{Press: true, Code: KeyEnter}, true
	}

	r := rune(code)

	// Ctrl chords follow the terminal convention: Ctrl+letter sends the
	// letter's low five bits. That is the byte the memory register and
	// quit shortcuts listen for.
	if k.ctrlDown {
		if r >= 'a' && r <= 'z' {
			return KeyEvent{Press: true, Rune: r & 0x1F}, true
		}
		if r >= 'A' && r <= 'Z' {
			return KeyEvent{Press: true, Rune: (r | 0x20) & 0x1F}, true
		}
	}

	return KeyEvent{Press: true, Rune: r}, true
}

func mapPicoCalcKey(code byte) KeyCode {
	switch code {
	case picoCalcKeyBackspace:
		return KeyBackspace
	case picoCalcKeyEsc:
		return KeyEscape
	case picoCalcKeyDel:
		return KeyDelete
	case picoCalcKeyHome:
		return KeyHome
	case picoCalcKeyEnd:
		return KeyEnd
	case picoCalcKeyLeft:
		return KeyLeft
	case picoCalcKeyRight:
		return KeyRight
	case picoCalcKeyUp:
		return KeyUp
	case picoCalcKeyDown:
		return KeyDown
	case picoCalcKeyF1:
		return KeyF1
	case picoCalcKeyF2:
		return KeyF2
	case picoCalcKeyF3:
		return KeyF3
	case picoCalcKeyIns:
		// No VT100 sequence of its own; Tab is harmless here.
		return KeyTab
	default:
		return KeyUnknown
	}
}
