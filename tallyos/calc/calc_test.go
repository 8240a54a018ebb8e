package calc

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

// run feeds a compact key script to the engine: digits and '.', operators
// '+' '-' 'x' '/', '=' equals, 'c' clear, 'r' sqrt, 'n' toggle sign,
// 'd' delete, '%' percent.
func run(s State, keys string) State {
	for _, r := range keys {
		s = s.Apply(eventFor(r))
	}
	return s
}

func eventFor(r rune) Event {
	if r >= '0' && r <= '9' {
		return Digit(byte(r))
	}
	switch r {
	case '.':
		return Decimal()
	case '+':
		return Operator(OpAdd)
	case '-':
		return Operator(OpSub)
	case 'x':
		return Operator(OpMul)
	case '/':
		return Operator(OpDiv)
	case '=':
		return Equals()
	case 'c':
		return Clear()
	case 'r':
		return Sqrt()
	case 'n':
		return ToggleSign()
	case 'd':
		return Delete()
	case '%':
		return Percent()
	}
	return Event{}
}

func TestScripts(t *testing.T) {
	tests := []struct {
		name        string
		keys        string
		wantDisplay string
		wantPending string
	}{
		{"initial", "", "0", ""},
		{"digits append", "75", "75", ""},
		{"leading zero replaced", "07", "7", ""},
		{"zero stays zero", "00", "0", ""},
		{"decimal from overwrite", ".5", "0.5", ""},
		{"decimal appended", "1.2", "1.2", ""},
		{"second decimal ignored", "1.2.3", "1.23", ""},
		{"toggle sign", "5n", "-5", ""},
		{"toggle sign twice", "5nn", "5", ""},
		{"toggle sign decimal", "1.5n", "-1.5", ""},
		{"toggle sign on zero", "0n", "0", ""},
		{"toggle sign on zero numeral", "0.00n", "0.00", ""},
		{"delete digit", "123d", "12", ""},
		{"delete decimal digit", "1.5d", "1.", ""},
		{"delete last digit", "1d", "0", ""},
		{"delete to lone sign", "5nd", "0", ""},
		{"delete under overwrite", "12+d", "0", "12 +"},
		{"percent plain", "50%", "0.5", ""},
		{"percent of negative", "5n%", "-0.05", ""},
		{"percent of pending", "200+10%", "20", "200 +"},
		{"equals after percent is idle", "200+10%=", "20", "200 +"},
		{"add", "7+5=", "12", ""},
		{"add decimals", "1.2+3.4=", "4.6", ""},
		{"float artifact sum", ".1+.2=", "0.3", ""},
		{"subtract below zero", "5-8=", "-3", ""},
		{"multiply chain", "2x3x4=", "24", ""},
		{"divide rounds down", "7/3=", "2.3333333333", ""},
		{"divide rounds up", "2/3=", "0.6666666667", ""},
		{"chain is left to right", "2+3x4=", "20", ""},
		{"operator captures", "7+", "7", "7 +"},
		{"operator substitution", "7+x", "7", "7 x"},
		{"operator chains", "1+2+", "3", "3 +"},
		{"equals without pending", "5=", "5", ""},
		{"equals right after operator", "5+=", "5", "5 +"},
		{"equals does not repeat", "7+5==", "12", ""},
		{"digit after equals starts over", "7+5=3", "3", ""},
		{"operator after equals chains result", "7+5=+8=", "20", ""},
		{"pending shows formatted operand", "5.0+", "5.0", "5 +"},
		{"clear entry keeps pending", "5+6c", "0", "5 +"},
		{"clear entry then new operand", "5+6c7=", "12", ""},
		{"clear twice resets", "5+6cc", "0", ""},
		{"clear on initial idles", "c", "0", ""},
		{"sqrt", "9r", "3", ""},
		{"sqrt irrational", "2r", "1.4142135624", ""},
		{"sqrt of zero", "0r", "0", ""},
		{"sqrt keeps pending", "9+16r", "4", "9 +"},
		{"equals after sqrt is idle", "9+16r=", "4", "9 +"},
		{"operator after sqrt substitutes", "9+16rx", "4", "9 x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := run(Initial(), tt.keys)
			if got := s.Display(); got != tt.wantDisplay {
				t.Fatalf("display = %q, want %q", got, tt.wantDisplay)
			}
			if got := s.Pending(); got != tt.wantPending {
				t.Fatalf("pending = %q, want %q", got, tt.wantPending)
			}
			if s.IsError() {
				t.Fatalf("unexpected error state")
			}
		})
	}
}

func TestErrorState(t *testing.T) {
	base := run(Initial(), "8/0=")
	if !base.IsError() || base.Display() != ErrorText {
		t.Fatalf("8/0= : display %q, error %v", base.Display(), base.IsError())
	}
	if base.Pending() != "" {
		t.Fatalf("error state kept pending %q", base.Pending())
	}

	t.Run("editing is rejected", func(t *testing.T) {
		for _, keys := range []string{"5", ".", "n", "d", "%", "+", "="} {
			if got := run(base, keys); got != base {
				t.Fatalf("%q changed the error state", keys)
			}
		}
	})

	t.Run("sqrt stays in error", func(t *testing.T) {
		if got := run(base, "r"); !got.IsError() {
			t.Fatalf("sqrt left the error state: %q", got.Display())
		}
	})

	t.Run("memory store is rejected", func(t *testing.T) {
		for _, ev := range []Event{MemStore(), MemAdd(), MemSub()} {
			if got := base.Apply(ev); got != base {
				t.Fatalf("%v changed the error state", ev.Kind)
			}
		}
	})

	t.Run("memory clear works", func(t *testing.T) {
		withMem := run(Initial(), "5").Apply(MemStore())
		errored := run(withMem, "c8/0=")
		got := errored.Apply(MemClear())
		if got.Memory() != 0 || !got.IsError() {
			t.Fatalf("memory = %v, error %v", got.Memory(), got.IsError())
		}
	})

	t.Run("memory recall recovers", func(t *testing.T) {
		withMem := run(Initial(), "5").Apply(MemStore())
		errored := run(withMem, "c8/0=")
		got := errored.Apply(MemRecall())
		if got.IsError() || got.Display() != "5" {
			t.Fatalf("display after recall = %q, error %v", got.Display(), got.IsError())
		}
	})

	t.Run("clear recovers in two presses", func(t *testing.T) {
		once := run(base, "c")
		if once.IsError() || once.Display() != "0" {
			t.Fatalf("first clear: display %q", once.Display())
		}
		twice := run(base, "cc")
		if twice != Initial() {
			t.Fatalf("second clear did not reset: %+v", twice)
		}
	})

	t.Run("nine divided by zero", func(t *testing.T) {
		s := run(Initial(), "9/0=cc")
		if s.Display() != "0" || s.Pending() != "" || s.IsError() {
			t.Fatalf("display %q pending %q error %v", s.Display(), s.Pending(), s.IsError())
		}
	})
}

func TestSqrtNegative(t *testing.T) {
	s := run(Initial(), "9nr")
	if !s.IsError() {
		t.Fatalf("sqrt of -9: display %q", s.Display())
	}
	if s.Pending() != "" {
		t.Fatalf("sqrt error kept pending %q", s.Pending())
	}

	// Failing inside a chain drops the pending operation too.
	s = run(Initial(), "9+16nr")
	if !s.IsError() || s.Pending() != "" {
		t.Fatalf("display %q pending %q", s.Display(), s.Pending())
	}
}

func TestOverflow(t *testing.T) {
	big := "1" + strings.Repeat("0", 200)

	s := run(Initial(), big+"x"+big+"=")
	if !s.IsError() {
		t.Fatalf("overflowing product: display %q", s.Display())
	}
	if s.Pending() != "" {
		t.Fatalf("equals error kept pending %q", s.Pending())
	}

	huge := "1" + strings.Repeat("0", 309)
	if got := run(Initial(), huge+"+1="); !got.IsError() {
		t.Fatalf("sum over an overflowing entry: display %q", got.Display())
	}
	if got := run(Initial(), huge+"r"); !got.IsError() {
		t.Fatalf("sqrt of an overflowing entry: display %q", got.Display())
	}
}

// A percent whose result overflows leaves the pending operation in place,
// which is the one route into an error display with a pending operator.
// Escaping it takes exactly two Clear presses.
func TestClearAfterErrorWithPending(t *testing.T) {
	big := "1" + strings.Repeat("0", 200)
	s := run(Initial(), big+"x"+big+"%")
	if !s.IsError() {
		t.Fatalf("overflowing percent: display %q", s.Display())
	}
	if s.Pending() == "" {
		t.Fatalf("percent dropped the pending operation")
	}

	s = s.Apply(Clear())
	if s.IsError() || s.Display() != "0" || s.Pending() == "" {
		t.Fatalf("first clear: display %q pending %q", s.Display(), s.Pending())
	}
	if s.ClearLabel() != "AC" {
		t.Fatalf("label after first clear = %q, want AC", s.ClearLabel())
	}

	s = s.Apply(Clear())
	if s.Display() != "0" || s.Pending() != "" {
		t.Fatalf("second clear: display %q pending %q", s.Display(), s.Pending())
	}
}

func TestClearLabel(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"", "AC"},
		{"5", "C"},
		{"5c", "AC"},
		{"5+", "C"},
		{"5+c", "AC"},
		{"8/0=", "C"},
		{"8/0=c", "AC"},
	}
	for _, tt := range tests {
		if got := run(Initial(), tt.keys).ClearLabel(); got != tt.want {
			t.Fatalf("label after %q = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestMemoryRegister(t *testing.T) {
	t.Run("store and recall", func(t *testing.T) {
		s := run(Initial(), "42.5").Apply(MemStore())
		if s.Memory() != 42.5 || !s.HasMemory() {
			t.Fatalf("memory = %v", s.Memory())
		}
		s = run(s, "7")
		if s.Display() != "42.57" {
			t.Fatalf("display = %q, want 42.57", s.Display())
		}
		s = s.Apply(MemRecall())
		if s.Display() != "42.5" {
			t.Fatalf("display after recall = %q, want 42.5", s.Display())
		}
	})

	t.Run("recall sets overwrite", func(t *testing.T) {
		s := run(Initial(), "5").Apply(MemStore())
		s = run(s, "c123").Apply(MemRecall())
		if s.Display() != "5" {
			t.Fatalf("display after recall = %q, want 5", s.Display())
		}
		if got := run(s, "9").Display(); got != "9" {
			t.Fatalf("digit after recall appended: %q", got)
		}
	})

	t.Run("arithmetic", func(t *testing.T) {
		s := run(Initial(), "5").Apply(MemStore())
		s = run(s, "c2").Apply(MemAdd())
		s = run(s, "c3").Apply(MemSub())
		if s.Memory() != 4 {
			t.Fatalf("memory = %v, want 4", s.Memory())
		}
	})

	t.Run("adjust rounds like the display", func(t *testing.T) {
		s := run(Initial(), ".1").Apply(MemStore())
		s = run(s, "c.2").Apply(MemAdd())
		if s.Memory() != 0.3 {
			t.Fatalf("memory = %v, want 0.3", s.Memory())
		}
	})

	t.Run("clear keeps memory", func(t *testing.T) {
		s := run(Initial(), "5").Apply(MemStore())
		s = run(s, "cc")
		if s.Memory() != 5 || s.Display() != "0" || s.Pending() != "" {
			t.Fatalf("memory %v display %q pending %q", s.Memory(), s.Display(), s.Pending())
		}
		s = s.Apply(MemClear())
		if s.Memory() != 0 || s.HasMemory() {
			t.Fatalf("memory after clear = %v", s.Memory())
		}
	})

	t.Run("non-finite adjust is rejected", func(t *testing.T) {
		maxStr := strconv.FormatFloat(math.MaxFloat64, 'f', -1, 64)
		s := State{entry: maxStr, overwrite: true, memory: math.MaxFloat64}
		if got := s.Apply(MemAdd()); got.Memory() != math.MaxFloat64 {
			t.Fatalf("memory after overflowing add = %v", got.Memory())
		}
		s = State{entry: maxStr, overwrite: true, memory: -math.MaxFloat64}
		if got := s.Apply(MemSub()); got.Memory() != -math.MaxFloat64 {
			t.Fatalf("memory after overflowing subtract = %v", got.Memory())
		}
	})
}

func TestStateIsValue(t *testing.T) {
	s0 := Initial()
	s1 := s0.Apply(Digit('5'))
	if s0.Display() != "0" || s1.Display() != "5" {
		t.Fatalf("apply mutated the receiver: %q / %q", s0.Display(), s1.Display())
	}
}

func TestEventForRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Event
		ok   bool
	}{
		{'7', Digit('7'), true},
		{'.', Decimal(), true},
		{'+', Operator(OpAdd), true},
		{'-', Operator(OpSub), true},
		{'*', Operator(OpMul), true},
		{'x', Operator(OpMul), true},
		{'X', Operator(OpMul), true},
		{'/', Operator(OpDiv), true},
		{'=', Equals(), true},
		{'c', Clear(), true},
		{'C', Clear(), true},
		{'%', Percent(), true},
		{'r', Sqrt(), true},
		{'n', ToggleSign(), true},
		{'q', Event{}, false},
		{' ', Event{}, false},
		{'#', Event{}, false},
	}
	for _, tt := range tests {
		got, ok := EventForRune(tt.r)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("EventForRune(%q) = %+v, %v; want %+v, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}
