// Package app assembles the kernel, services and the calculator task
// on top of a HAL instance.
package app

import (
	"errors"

	"tally/hal"
	"tally/internal/buildinfo"
	"tally/tallyos/kernel"
	"tally/tallyos/services/input"
	"tally/tallyos/services/logger"
	"tally/tallyos/services/powermgr"
	"tally/tallyos/tasks/calculator"
)

// ErrQuit is returned by the step function once the power manager has
// completed a clean shutdown.
var ErrQuit = errors.New("quit")

// DefaultSleepAfterTicks is two minutes at the 1ms tick rate.
const DefaultSleepAfterTicks = 120000

type Config struct {
	// SleepAfterTicks is the idle time before the display sleeps.
	// Zero disables display sleep.
	SleepAfterTicks uint64
}

type system struct {
	k    *kernel.Kernel
	quit chan struct{}
}

// New initializes and starts the OS with the default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{SleepAfterTicks: DefaultSleepAfterTicks})
}

// Run starts the OS and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	sys := newSystem(h, cfg)
	return func() error {
		select {
		case <-sys.quit:
			return ErrQuit
		default:
			return nil
		}
	}
}

func RunWithConfig(h hal.HAL, cfg Config) {
	_ = NewWithConfig(h, cfg)
	select {}
}

func newSystem(h hal.HAL, cfg Config) *system {
	bootDiagStart(h)
	bootScreen(h, "kernel")

	if l := h.Logger(); l != nil {
		l.WriteLineString(buildinfo.Line())
	}

	k := kernel.New()
	installPanicHandler(h)

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	pmEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	appEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	quit := make(chan struct{})

	bootScreen(h, "services")
	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(powermgr.New(
		pmEP.Restrict(kernel.RightRecv),
		appEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
		cfg.SleepAfterTicks,
		quit,
	))
	k.AddTask(input.New(h.Input(), pmEP.Restrict(kernel.RightSend)))

	bootScreen(h, "tasks")
	k.AddTask(calculator.New(
		h.Display(),
		appEP.Restrict(kernel.RightRecv),
		pmEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
	))

	// The LED doubles as a power indicator.
	if led := h.LED(); led != nil {
		led.High()
		go func() {
			<-quit
			led.Low()
		}()
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	bootScreen(h, "ready")
	return &system{k: k, quit: quit}
}
