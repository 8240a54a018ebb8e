// Package calc implements the calculator engine as a pure state machine.
// Apply takes a value State and one key event and returns the successor
// state; rendering and input decoding live elsewhere.
package calc

import (
	"math"
	"strings"
)

// ErrorText is the display sentinel for failed computations.
const ErrorText = "Error"

// Op identifies a pending binary operator.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// Symbol returns the display glyph for the operator. The glyph set is
// 7-bit so it renders with every tinyfont face.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "x"
	case OpDiv:
		return "/"
	default:
		return ""
	}
}

// EventKind identifies a calculator key event.
type EventKind uint8

const (
	EvDigit EventKind = iota + 1
	EvDecimal
	EvToggleSign
	EvDelete
	EvPercent
	EvOperator
	EvEquals
	EvClear
	EvSqrt
	EvMemClear
	EvMemRecall
	EvMemStore
	EvMemAdd
	EvMemSub
)

// Event is one key press delivered to the engine.
type Event struct {
	Kind  EventKind
	Digit byte // '0'..'9', for EvDigit
	Op    Op   // for EvOperator
}

func Digit(d byte) Event   { return Event{Kind: EvDigit, Digit: d} }
func Decimal() Event       { return Event{Kind: EvDecimal} }
func ToggleSign() Event    { return Event{Kind: EvToggleSign} }
func Delete() Event        { return Event{Kind: EvDelete} }
func Percent() Event       { return Event{Kind: EvPercent} }
func Operator(op Op) Event { return Event{Kind: EvOperator, Op: op} }
func Equals() Event        { return Event{Kind: EvEquals} }
func Clear() Event         { return Event{Kind: EvClear} }
func Sqrt() Event          { return Event{Kind: EvSqrt} }
func MemClear() Event      { return Event{Kind: EvMemClear} }
func MemRecall() Event     { return Event{Kind: EvMemRecall} }
func MemStore() Event      { return Event{Kind: EvMemStore} }
func MemAdd() Event        { return Event{Kind: EvMemAdd} }
func MemSub() Event        { return Event{Kind: EvMemSub} }

// EventForRune maps a typed character to an engine event. The letter
// aliases exist for keyboards without dedicated calculator keys: x
// multiplies, c clears, r takes the square root, n flips the sign.
func EventForRune(r rune) (Event, bool) {
	if r >= '0' && r <= '9' {
		return Digit(byte(r)), true
	}
	switch r {
	case '.':
		return Decimal(), true
	case '+':
		return Operator(OpAdd), true
	case '-':
		return Operator(OpSub), true
	case '*', 'x', 'X':
		return Operator(OpMul), true
	case '/':
		return Operator(OpDiv), true
	case '=':
		return Equals(), true
	case 'c', 'C':
		return Clear(), true
	case '%':
		return Percent(), true
	case 'r', 'R':
		return Sqrt(), true
	case 'n', 'N':
		return ToggleSign(), true
	}
	return Event{}, false
}

// State is a calculator state value.
//
// entry is never empty: it holds "0", a decimal numeral (optional leading
// '-', at most one '.'), or ErrorText. prev and op are either both unset
// or both set. memory is always finite and survives Clear.
type State struct {
	entry     string
	prev      string
	op        Op
	overwrite bool
	memory    float64
}

// Initial returns the power-on state.
func Initial() State {
	return State{entry: "0", overwrite: true}
}

// Display returns the main display text.
func (s State) Display() string { return s.entry }

// Pending returns the captured operand and operator ("12 +"), or "" when
// no operator is pending.
func (s State) Pending() string {
	if s.op == OpNone {
		return ""
	}
	return formatNumber(parseNumber(s.prev)) + " " + s.op.Symbol()
}

// IsError reports whether the display shows the error sentinel.
func (s State) IsError() bool { return s.entry == ErrorText }

// ClearLabel returns the clear-key caption: "AC" when the next press is a
// full reset, "C" when it only clears the entry.
func (s State) ClearLabel() string {
	if s.entry == "0" {
		return "AC"
	}
	return "C"
}

// Overwrite reports whether the next digit replaces the entry.
func (s State) Overwrite() bool { return s.overwrite }

// Memory returns the memory register value.
func (s State) Memory() float64 { return s.memory }

// HasMemory reports whether the memory register holds a nonzero value.
func (s State) HasMemory() bool { return s.memory != 0 }

// Apply advances the state by one event. While the display shows the error
// sentinel only Clear, Sqrt, MemClear and MemRecall get through; everything
// else returns the state unchanged.
func (s State) Apply(ev Event) State {
	if s.entry == ErrorText && !allowedInError(ev.Kind) {
		return s
	}
	switch ev.Kind {
	case EvDigit:
		return s.digit(ev.Digit)
	case EvDecimal:
		return s.decimal()
	case EvToggleSign:
		return s.toggleSign()
	case EvDelete:
		return s.delete()
	case EvPercent:
		return s.percent()
	case EvOperator:
		return s.operator(ev.Op)
	case EvEquals:
		return s.equals()
	case EvClear:
		return s.clear()
	case EvSqrt:
		return s.sqrt()
	case EvMemClear:
		return s.memClear()
	case EvMemRecall:
		return s.memRecall()
	case EvMemStore:
		return s.memStore()
	case EvMemAdd:
		return s.memAdjust(1)
	case EvMemSub:
		return s.memAdjust(-1)
	}
	return s
}

func allowedInError(k EventKind) bool {
	switch k {
	case EvClear, EvSqrt, EvMemClear, EvMemRecall:
		return true
	}
	return false
}

func errorState(memory float64) State {
	return State{entry: ErrorText, overwrite: true, memory: memory}
}

func (s State) digit(d byte) State {
	if d < '0' || d > '9' {
		return s
	}
	switch {
	case s.overwrite:
		s.entry = string(d)
		s.overwrite = false
	case s.entry == "0":
		s.entry = string(d)
	default:
		s.entry += string(d)
	}
	return s
}

func (s State) decimal() State {
	if s.overwrite {
		s.entry = "0."
		s.overwrite = false
		return s
	}
	if !strings.Contains(s.entry, ".") {
		s.entry += "."
	}
	return s
}

func (s State) toggleSign() State {
	if parseNumber(s.entry) == 0 {
		return s
	}
	if strings.HasPrefix(s.entry, "-") {
		s.entry = s.entry[1:]
	} else {
		s.entry = "-" + s.entry
	}
	return s
}

func (s State) delete() State {
	if s.overwrite {
		s.entry = "0"
		return s
	}
	s.entry = s.entry[:len(s.entry)-1]
	if s.entry == "" || s.entry == "-" {
		s.entry = "0"
		s.overwrite = true
	}
	return s
}

// percent leaves the pending operator untouched even when the result is
// the error sentinel; the follow-up press decides what happens next.
func (s State) percent() State {
	v := parseNumber(s.entry)
	if s.op != OpNone {
		s.entry = formatNumber(parseNumber(s.prev) * v / 100)
	} else {
		s.entry = formatNumber(v / 100)
	}
	s.overwrite = true
	return s
}

func (s State) operator(op Op) State {
	if op == OpNone {
		return s
	}
	switch {
	case s.op == OpNone:
		s.prev = s.entry
		s.op = op
		s.overwrite = true
	case s.overwrite:
		// Operator pressed right after an operator: substitution, no compute.
		s.op = op
	default:
		result := applyOp(s.prev, s.entry, s.op)
		if result == ErrorText {
			return errorState(s.memory)
		}
		s.prev = result
		s.entry = result
		s.op = op
		s.overwrite = true
	}
	return s
}

func (s State) equals() State {
	if s.op == OpNone || s.overwrite {
		return s
	}
	result := applyOp(s.prev, s.entry, s.op)
	if result == ErrorText {
		return errorState(s.memory)
	}
	s.entry = result
	s.prev = ""
	s.op = OpNone
	s.overwrite = true
	return s
}

// clear is two-tier: with the entry already showing "0" it resets
// everything but the memory register; otherwise it only clears the entry
// and keeps any pending operation.
func (s State) clear() State {
	if s.entry == "0" {
		mem := s.memory
		s = Initial()
		s.memory = mem
		return s
	}
	s.entry = "0"
	s.overwrite = true
	return s
}

// sqrt is permitted in the error state; it decides error handling itself.
func (s State) sqrt() State {
	v, ok := parseEntry(s.entry)
	if !ok || v < 0 {
		return errorState(s.memory)
	}
	s.entry = formatNumber(math.Sqrt(v))
	s.overwrite = true
	return s
}

func (s State) memClear() State {
	s.memory = 0
	return s
}

func (s State) memRecall() State {
	s.entry = formatNumber(s.memory)
	s.overwrite = true
	return s
}

func (s State) memStore() State {
	v, ok := parseEntry(s.entry)
	if !ok {
		return s
	}
	s.memory = v
	return s
}

func (s State) memAdjust(sign float64) State {
	v, ok := parseEntry(s.entry)
	if !ok {
		return s
	}
	next := round10(s.memory + sign*v)
	if math.IsInf(next, 0) || math.IsNaN(next) {
		return s
	}
	s.memory = next
	return s
}
