package calculator

import (
	"testing"

	"tally/tallyos/calc"
)

func collectKeys(t *testing.T, b []byte) []key {
	t.Helper()
	var out []key
	for len(b) > 0 {
		n, k, ok := nextKey(b)
		if !ok {
			break
		}
		if n <= 0 {
			t.Fatalf("nextKey consumed %d bytes", n)
		}
		b = b[n:]
		out = append(out, k)
	}
	return out
}

func TestNextKeyRunes(t *testing.T) {
	got := collectKeys(t, []byte("12+."))
	want := []key{
		{kind: keyRune, r: '1'},
		{kind: keyRune, r: '2'},
		{kind: keyRune, r: '+'},
		{kind: keyRune, r: '.'},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNextKeySequences(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want key
	}{
		{"enter lf", []byte("\n"), key{kind: keyEnter}},
		{"enter cr", []byte("\r"), key{kind: keyEnter}},
		{"backspace del", []byte{0x7f}, key{kind: keyBackspace}},
		{"backspace bs", []byte{0x08}, key{kind: keyBackspace}},
		{"bare escape", []byte{0x1b}, key{kind: keyEsc}},
		{"delete", []byte("\x1b[3~"), key{kind: keyDelete}},
		{"arrow up", []byte("\x1b[A"), key{kind: keyUp}},
		{"home", []byte("\x1b[H"), key{kind: keyHome}},
		{"f1 swallowed whole", []byte("\x1b[11~"), key{kind: keyFn}},
		{"f3 swallowed whole", []byte("\x1b[13~"), key{kind: keyFn}},
		{"quit", []byte{0x03}, key{kind: keyCtrl, ctrl: ctrlQuit}},
		{"mem store", []byte{0x13}, key{kind: keyCtrl, ctrl: ctrlMemStore}},
		{"mem clear", []byte{0x0C}, key{kind: keyCtrl, ctrl: ctrlMemClear}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, k, ok := nextKey(tt.in)
			if !ok {
				t.Fatalf("nextKey(%q) not ready", tt.in)
			}
			if n != len(tt.in) {
				t.Fatalf("nextKey(%q) consumed %d bytes, want %d", tt.in, n, len(tt.in))
			}
			if k != tt.want {
				t.Fatalf("nextKey(%q) = %+v, want %+v", tt.in, k, tt.want)
			}
		})
	}
}

func TestNextKeyPartialSequences(t *testing.T) {
	for _, in := range [][]byte{
		[]byte("\x1b["),
		[]byte("\x1b[3"),
		[]byte("\x1b[1"),
		[]byte("\x1b[11"),
	} {
		n, _, ok := nextKey(in)
		if ok || n != 0 {
			t.Fatalf("nextKey(%q) = %d, %v; want incomplete", in, n, ok)
		}
	}
}

func TestEventForKey(t *testing.T) {
	tests := []struct {
		name string
		k    key
		want calc.Event
		ok   bool
	}{
		{"digit", key{kind: keyRune, r: '7'}, calc.Digit('7'), true},
		{"decimal", key{kind: keyRune, r: '.'}, calc.Decimal(), true},
		{"add", key{kind: keyRune, r: '+'}, calc.Operator(calc.OpAdd), true},
		{"sub", key{kind: keyRune, r: '-'}, calc.Operator(calc.OpSub), true},
		{"mul star", key{kind: keyRune, r: '*'}, calc.Operator(calc.OpMul), true},
		{"mul x", key{kind: keyRune, r: 'x'}, calc.Operator(calc.OpMul), true},
		{"div", key{kind: keyRune, r: '/'}, calc.Operator(calc.OpDiv), true},
		{"equals rune", key{kind: keyRune, r: '='}, calc.Equals(), true},
		{"equals enter", key{kind: keyEnter}, calc.Equals(), true},
		{"clear rune", key{kind: keyRune, r: 'C'}, calc.Clear(), true},
		{"clear escape", key{kind: keyEsc}, calc.Clear(), true},
		{"delete backspace", key{kind: keyBackspace}, calc.Delete(), true},
		{"delete key", key{kind: keyDelete}, calc.Delete(), true},
		{"percent", key{kind: keyRune, r: '%'}, calc.Percent(), true},
		{"sqrt", key{kind: keyRune, r: 'r'}, calc.Sqrt(), true},
		{"sign", key{kind: keyRune, r: 'n'}, calc.ToggleSign(), true},
		{"mem add", key{kind: keyCtrl, ctrl: ctrlMemAdd}, calc.MemAdd(), true},
		{"mem sub", key{kind: keyCtrl, ctrl: ctrlMemSub}, calc.MemSub(), true},
		{"mem recall", key{kind: keyCtrl, ctrl: ctrlMemRecall}, calc.MemRecall(), true},
		{"unmapped rune", key{kind: keyRune, r: 'z'}, calc.Event{}, false},
		{"unmapped arrow", key{kind: keyUp}, calc.Event{}, false},
		{"fn ignored", key{kind: keyFn}, calc.Event{}, false},
		{"quit is not an engine event", key{kind: keyCtrl, ctrl: ctrlQuit}, calc.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := eventForKey(tt.k)
			if ok != tt.ok || ev != tt.want {
				t.Fatalf("eventForKey(%+v) = %+v, %v; want %+v, %v", tt.k, ev, ok, tt.want, tt.ok)
			}
		})
	}
}
