// Package calculator is the on-screen calculator app. It owns the
// framebuffer, decodes key bytes and pointer events into engine
// events, and keeps a short tape of completed computations.
package calculator

import (
	"tally/hal"
	"tally/tallyos/calc"
	"tally/tallyos/client/logger"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	// tapeKeep bounds the retained tape; tapeShown lines are rendered.
	tapeKeep  = 16
	tapeShown = 2

	// flashTicks is how long a pressed button stays highlighted.
	flashTicks = 150

	sendRetryLimit = 50
)

type button struct {
	x, y, w, h int
	label      string
	ev         calc.Event
	dim        bool
}

type Task struct {
	disp   hal.Display
	ep     kernel.Capability
	pmCap  kernel.Capability
	logCap kernel.Capability

	fb hal.Framebuffer

	fontMain    tinyfont.Fonter
	fontKey     tinyfont.Fonter
	fontSmall   tinyfont.Fonter
	mainHeight  int16
	keyHeight   int16
	smallHeight int16

	active bool

	w int
	h int

	nowTick uint64

	state calc.State
	tape  []string

	buttons    []button
	flashIdx   int
	flashUntil uint64

	inbuf []byte
}

// New builds the calculator task. pmCap is the power manager endpoint
// used to request shutdown; logCap may be invalid to disable logging.
func New(disp hal.Display, ep, pmCap, logCap kernel.Capability) *Task {
	return &Task{
		disp:     disp,
		ep:       ep,
		pmCap:    pmCap,
		logCap:   logCap,
		state:    calc.Initial(),
		flashIdx: -1,
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch := ctx.RecvChan(t.ep)
	if ch == nil {
		return
	}
	if t.disp == nil {
		return
	}

	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return
	}
	if !t.initFonts() {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 8)
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
			switch proto.Kind(msg.Kind) {
			case proto.MsgAppShutdown:
				t.unload()
				return

			case proto.MsgAppControl:
				active, ok := proto.DecodeAppControlPayload(msg.Payload())
				if !ok {
					continue
				}
				t.setActive(ctx, active)

			case proto.MsgKeyInput:
				if !t.active {
					continue
				}
				t.handleInput(ctx, msg.Payload())
				t.render()

			case proto.MsgPointer:
				if !t.active {
					continue
				}
				t.handlePointer(ctx, msg.Payload())
				t.render()
			}

		case now := <-tickCh:
			if !t.active {
				continue
			}
			t.nowTick = now
			if t.flashIdx >= 0 && now >= t.flashUntil {
				t.flashIdx = -1
				t.render()
			}
		}
	}
}

func (t *Task) initFonts() bool {
	t.fontMain = &freemono.Bold18pt7b
	t.fontKey = &freemono.Regular9pt7b
	t.fontSmall = &proggy.TinySZ8pt7b
	t.mainHeight = int16(t.fontMain.GetYAdvance())
	t.keyHeight = int16(t.fontKey.GetYAdvance())
	t.smallHeight = int16(t.fontSmall.GetYAdvance())
	return t.mainHeight > 0 && t.keyHeight > 0 && t.smallHeight > 0
}

func (t *Task) setActive(ctx *kernel.Context, active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if !t.active {
		t.blank()
		return
	}
	t.initApp(ctx)
	t.render()
}

// initApp rebuilds the panel layout. The engine state and tape
// survive display sleep; only presentation state is reset here.
func (t *Task) initApp(ctx *kernel.Context) {
	t.w = t.fb.Width()
	t.h = t.fb.Height()
	if t.w <= 0 || t.h <= 0 {
		t.active = false
		return
	}
	t.nowTick = ctx.NowTick()
	t.flashIdx = -1
	t.inbuf = t.inbuf[:0]
	t.buildButtons()
}

func (t *Task) unload() {
	t.active = false
	t.blank()
	t.tape = nil
	t.inbuf = nil
}

func (t *Task) handleInput(ctx *kernel.Context, b []byte) {
	t.nowTick = ctx.NowTick()
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf
	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.handleKey(ctx, k)
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) handleKey(ctx *kernel.Context, k key) {
	if k.kind == keyCtrl && k.ctrl == ctrlQuit {
		t.requestExit(ctx)
		return
	}
	ev, ok := eventForKey(k)
	if !ok {
		return
	}
	t.apply(ctx, ev)
	t.flashButtonFor(ev)
}

func (t *Task) handlePointer(ctx *kernel.Context, payload []byte) {
	x, y, press, ok := proto.DecodePointerPayload(payload)
	if !ok || !press {
		return
	}
	t.nowTick = ctx.NowTick()
	i := t.hitTest(int(x), int(y))
	if i < 0 {
		return
	}
	t.apply(ctx, t.buttons[i].ev)
	t.flashIdx = i
	t.flashUntil = t.nowTick + flashTicks
}

func (t *Task) apply(ctx *kernel.Context, ev calc.Event) {
	pre := t.state
	t.state = pre.Apply(ev)
	if line := tapeLine(pre, t.state, ev); line != "" {
		t.appendTape(ctx, line)
	}
}

// tapeLine renders a completed computation, or "" when the event did
// not complete one. Equals and a chaining operator only compute when
// a fresh operand is pending; square root always computes.
func tapeLine(pre, post calc.State, ev calc.Event) string {
	switch ev.Kind {
	case calc.EvEquals, calc.EvOperator:
		if pre.IsError() || pre.Pending() == "" || pre.Overwrite() {
			return ""
		}
		return pre.Pending() + " " + pre.Display() + " = " + post.Display()
	case calc.EvSqrt:
		if pre.IsError() {
			return ""
		}
		return "sqrt " + pre.Display() + " = " + post.Display()
	}
	return ""
}

func (t *Task) appendTape(ctx *kernel.Context, line string) {
	t.tape = append(t.tape, line)
	if len(t.tape) > tapeKeep {
		t.tape = t.tape[len(t.tape)-tapeKeep:]
	}
	logger.Log(ctx, t.logCap, "calc: "+line)
}

func (t *Task) flashButtonFor(ev calc.Event) {
	for i := range t.buttons {
		if t.buttons[i].ev == ev {
			t.flashIdx = i
			t.flashUntil = t.nowTick + flashTicks
			return
		}
	}
}

func (t *Task) requestExit(ctx *kernel.Context) {
	if !t.pmCap.Valid() {
		return
	}
	ctx.SendToCapRetry(t.pmCap, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, sendRetryLimit)
}
