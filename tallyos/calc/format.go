package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const displayDecimals = 10

// round10 rounds to 10 decimal places, half away from zero. Values whose
// scaling would overflow are returned as is.
func round10(x float64) float64 {
	if scaled := x * 1e10; !math.IsInf(scaled, 0) {
		return math.Round(scaled) / 1e10
	}
	return x
}

// formatNumber renders x for the display: rounded via round10, fixed-point,
// trailing zeros and a trailing point stripped. Non-finite values render
// ErrorText; a value rounded to zero renders "0" with no sign.
func formatNumber(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrorText
	}
	x = round10(x)
	if x == 0 {
		return "0"
	}
	s := strconv.FormatFloat(x, 'f', displayDecimals, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "0"
	}
	return s
}

// parseNumber reads a display numeral permissively: syntax errors (the
// error sentinel, the empty previous-value slot) count as zero, while a
// numeral too large for float64 keeps ParseFloat's clamped ±Inf so that
// downstream formatting reports it as an error.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// parseEntry reads a display numeral strictly; ok is false for anything
// ParseFloat rejects, range overflow included.
func parseEntry(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// applyOp computes a binary operation over two display numerals and renders
// the result. Division by an exactly-zero right operand reports ErrorText
// rather than ±Inf; overflow surfaces as ErrorText through formatNumber.
func applyOp(a, b string, op Op) string {
	x := parseNumber(a)
	y := parseNumber(b)
	switch op {
	case OpAdd:
		return formatNumber(x + y)
	case OpSub:
		return formatNumber(x - y)
	case OpMul:
		return formatNumber(x * y)
	case OpDiv:
		if y == 0 {
			return ErrorText
		}
		return formatNumber(x / y)
	}
	return formatNumber(y)
}
