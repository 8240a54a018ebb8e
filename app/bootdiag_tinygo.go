//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"tally/hal"
)

// bootDiag repeats the current boot step on the UART and USB CDC every
// quarter second. When bring-up hangs, the last step printed names the
// stage that never finished.
var bootDiag struct {
	sync.Mutex
	step string
}

func bootDiagSetStep(msg string) {
	bootDiag.Lock()
	bootDiag.step = msg
	bootDiag.Unlock()
}

func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	l := h.Logger()

	go func() {
		for {
			bootDiag.Lock()
			step := bootDiag.step
			bootDiag.Unlock()
			if step == "" {
				step = "<none>"
			}

			line := "bootdiag: " + step
			if l != nil {
				l.WriteLineString(line)
			}
			// USB CDC enumerates late; writing every round means the
			// first beacon lands as soon as the host attaches.
			if usb := machine.USBCDC; usb != nil {
				_, _ = usb.Write([]byte(line + "\r\n"))
			}

			time.Sleep(250 * time.Millisecond)
		}
	}()
}
