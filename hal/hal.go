// Package hal separates the operating system from the machine it runs
// on. Each supported platform provides one HAL implementation; the OS
// only ever talks to these interfaces.
package hal

import "errors"

// ErrNotImplemented marks an operation the platform cannot perform,
// such as presenting a framebuffer with no panel attached.
var ErrNotImplemented = errors.New("not implemented")

// Logger writes whole log lines. Implementations append the newline.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED drives a single indicator pin.
type LED interface {
	High()
	Low()
}

// PixelFormat names the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp little-endian: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a pixel buffer the OS draws into. Present pushes the
// finished frame to whatever shows it.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode identifies keys that have no printable rune.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is one key transition. Printable keys carry Rune; the rest
// carry Code.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard delivers key events. Platforms drop events rather than
// block when the consumer falls behind.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerEvent is an absolute position in framebuffer coordinates.
type PointerEvent struct {
	X     int
	Y     int
	Press bool
}

// Pointer delivers pointer events: mouse on the host, touch where the
// hardware has it.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display hands out the framebuffer, or nil when the platform has none.
type Display interface {
	Framebuffer() Framebuffer
}

// Input bundles the input devices. Pointer returns nil on platforms
// without one.
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time is the base tick source. The tick length is platform-defined;
// everything above counts in ticks, not wall time.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the OS's only contact point with the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Input() Input
	Time() Time
}
