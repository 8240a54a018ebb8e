package calculator

import (
	"unicode/utf8"

	"tally/tallyos/calc"
)

type keyKind uint8

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyEsc
	keyUp
	keyDown
	keyLeft
	keyRight
	keyDelete
	keyHome
	keyEnd
	keyFn
	keyCtrl
)

// Control bytes carrying the memory register and quit shortcuts.
const (
	ctrlQuit      byte = 0x03
	ctrlMemClear  byte = 0x0C
	ctrlMemAdd    byte = 0x10
	ctrlMemSub    byte = 0x11
	ctrlMemRecall byte = 0x12
	ctrlMemStore  byte = 0x13
)

type key struct {
	kind keyKind
	r    rune
	ctrl byte
}

func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	if b[0] == 0x1b {
		return parseEscapeKey(b)
	}

	switch b[0] {
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	}

	if b[0] < 0x20 {
		return 1, key{kind: keyCtrl, ctrl: b[0]}, true
	}
	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 {
		return 1, key{kind: keyEsc}, true
	}
	if b[1] != '[' {
		return 1, key{kind: keyEsc}, true
	}
	if len(b) < 3 {
		return 0, key{}, false
	}

	switch b[2] {
	case 'A':
		return 3, key{kind: keyUp}, true
	case 'B':
		return 3, key{kind: keyDown}, true
	case 'C':
		return 3, key{kind: keyRight}, true
	case 'D':
		return 3, key{kind: keyLeft}, true
	case 'H':
		return 3, key{kind: keyHome}, true
	case 'F':
		return 3, key{kind: keyEnd}, true
	case '3':
		if len(b) < 4 {
			return 0, key{}, false
		}
		if b[3] == '~' {
			return 4, key{kind: keyDelete}, true
		}
		return 1, key{kind: keyEsc}, true
	case '4':
		if len(b) < 4 {
			return 0, key{}, false
		}
		if b[3] == '~' {
			return 4, key{kind: keyEnd}, true
		}
		return 1, key{kind: keyEsc}, true
	case '1':
		if len(b) < 4 {
			return 0, key{}, false
		}
		if b[3] == '~' {
			return 4, key{kind: keyHome}, true
		}
		// Function keys arrive as ESC [ 1 N ~ and must be swallowed
		// whole, or the trailing digit would type into the entry.
		if b[3] >= '0' && b[3] <= '9' {
			if len(b) < 5 {
				return 0, key{}, false
			}
			if b[4] == '~' {
				return 5, key{kind: keyFn}, true
			}
		}
		return 1, key{kind: keyEsc}, true
	default:
		return 1, key{kind: keyEsc}, true
	}
}

// eventForKey maps a decoded key to an engine event. Quit is not an
// engine event and is handled by the task before this mapping.
func eventForKey(k key) (calc.Event, bool) {
	switch k.kind {
	case keyEnter:
		return calc.Equals(), true
	case keyBackspace, keyDelete:
		return calc.Delete(), true
	case keyEsc:
		return calc.Clear(), true
	case keyCtrl:
		switch k.ctrl {
		case ctrlMemClear:
			return calc.MemClear(), true
		case ctrlMemRecall:
			return calc.MemRecall(), true
		case ctrlMemAdd:
			return calc.MemAdd(), true
		case ctrlMemSub:
			return calc.MemSub(), true
		case ctrlMemStore:
			return calc.MemStore(), true
		}
		return calc.Event{}, false
	case keyRune:
		return calc.EventForRune(k.r)
	}
	return calc.Event{}, false
}
