//go:build tinygo && baremetal

package hal

import "machine"

// initBoard brings up the UART console and the on-board LED shared by
// every baremetal target.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func initBoard() (*uartLogger, *pinLED) {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &uartLogger{uart: uart}, &pinLED{pin: led}
}

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

func (in tinyGoInput) Pointer() Pointer {
	// No pointer hardware on these targets.
	return nil
}

// uartLogger writes lines byte by byte with a CRLF ending, so the
// output reads right in any serial terminal. No allocation per line.
type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.crlf()
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for _, c := range b {
		l.uart.WriteByte(c)
	}
	l.crlf()
}

func (l *uartLogger) crlf() {
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
