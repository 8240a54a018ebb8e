// Package powermgr sits between the input service and the calculator task.
// It proxies input messages to the task, deactivates the task after an idle
// period (display sleep), reactivates it on the next input, and coordinates
// shutdown.
package powermgr

import (
	"tally/tallyos/client/logger"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

// proxySendRetryLimit bounds BlockOnTick retries for proxied sends.
const proxySendRetryLimit = 50

type Service struct {
	ep         kernel.Capability
	appCap     kernel.Capability
	logCap     kernel.Capability
	sleepAfter uint64
	quit       chan<- struct{}

	active        bool
	lastInputTick uint64
}

// New builds the service. ep is its own mailbox, appCap the task's input
// mailbox. sleepAfter is the idle-tick budget before display sleep; 0
// disables sleeping. quit is closed once shutdown has been handed to the
// task.
func New(ep, appCap, logCap kernel.Capability, sleepAfter uint64, quit chan<- struct{}) *Service {
	return &Service{ep: ep, appCap: appCap, logCap: logCap, sleepAfter: sleepAfter, quit: quit}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil {
		return
	}
	ch := ctx.RecvChan(s.ep)
	if ch == nil {
		return
	}

	s.active = true
	s.lastInputTick = ctx.NowTick()
	s.sendControl(ctx, true)
	logger.Log(ctx, s.logCap, "powermgr: app activated")

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if s.handleMessage(ctx, msg) {
				return
			}
		case tick := <-tickCh:
			s.handleTick(ctx, tick)
		}
	}
}

func (s *Service) handleMessage(ctx *kernel.Context, msg kernel.Message) (shutdown bool) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgKeyInput, proto.MsgPointer:
		s.lastInputTick = ctx.NowTick()
		if !s.active {
			// The waking event only turns the display back on; it is
			// consumed, not forwarded.
			s.active = true
			s.sendControl(ctx, true)
			logger.Log(ctx, s.logCap, "powermgr: wake")
			return false
		}
		s.forward(ctx, msg)
	case proto.MsgAppShutdown:
		logger.Log(ctx, s.logCap, "powermgr: shutdown requested")
		ctx.SendToCapRetry(s.appCap, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, proxySendRetryLimit)
		if s.quit != nil {
			close(s.quit)
		}
		return true
	}
	return false
}

func (s *Service) handleTick(ctx *kernel.Context, tick uint64) {
	if s.sleepAfter == 0 || !s.active {
		return
	}
	if tick <= s.lastInputTick {
		return
	}
	if tick-s.lastInputTick < s.sleepAfter {
		return
	}
	s.active = false
	s.sendControl(ctx, false)
	logger.Log(ctx, s.logCap, "powermgr: display sleep")
}

func (s *Service) forward(ctx *kernel.Context, msg kernel.Message) {
	res := ctx.SendToCapRetry(s.appCap, msg.Kind, msg.Payload(), msg.Cap, proxySendRetryLimit)
	if res != kernel.SendOK {
		logger.Logf(ctx, s.logCap, "powermgr: drop %s: %s", proto.Kind(msg.Kind), res)
	}
}

func (s *Service) sendControl(ctx *kernel.Context, active bool) {
	ctx.SendToCapRetry(s.appCap, uint16(proto.MsgAppControl), proto.AppControlPayload(active), kernel.Capability{}, proxySendRetryLimit)
}
