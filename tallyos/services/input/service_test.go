package input

import (
	"testing"
	"time"

	"tally/hal"
	"tally/tallyos/kernel"
	"tally/tallyos/proto"
)

const testTimeout = 1 * time.Second

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (f *fakeKeyboard) Events() <-chan hal.KeyEvent { return f.ch }

type fakePointer struct{ ch chan hal.PointerEvent }

func (f *fakePointer) Events() <-chan hal.PointerEvent { return f.ch }

type fakeInput struct {
	kbd *fakeKeyboard
	ptr *fakePointer
}

func (f *fakeInput) Keyboard() hal.Keyboard { return f.kbd }

func (f *fakeInput) Pointer() hal.Pointer {
	if f.ptr == nil {
		return nil
	}
	return f.ptr
}

type serviceTask struct{ svc *Service }

func (t *serviceTask) Run(ctx *kernel.Context) { t.svc.Run(ctx) }

type recvTask struct {
	cap kernel.Capability
	out chan<- kernel.Message
}

func (t *recvTask) Run(ctx *kernel.Context) {
	ch := ctx.RecvChan(t.cap)
	if ch == nil {
		return
	}
	for msg := range ch {
		t.out <- msg
	}
}

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
		var zero T
		return zero
	}
}

func startService(t *testing.T, k *kernel.Kernel, in *fakeInput) <-chan kernel.Message {
	t.Helper()
	outEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(&serviceTask{svc: New(in, outEP.Restrict(kernel.RightSend))})
	out := make(chan kernel.Message, 16)
	k.AddTask(&recvTask{cap: outEP.Restrict(kernel.RightRecv), out: out})
	return out
}

func TestKeysBecomeBytes(t *testing.T) {
	k := kernel.New()
	in := &fakeInput{kbd: &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}}
	out := startService(t, k, in)

	in.kbd.ch <- hal.KeyEvent{Rune: '7', Press: true}
	msg := recvWithTimeout(t, out)
	if proto.Kind(msg.Kind) != proto.MsgKeyInput {
		t.Fatalf("kind = %s, want key_input", proto.Kind(msg.Kind))
	}
	if got := string(msg.Payload()); got != "7" {
		t.Fatalf("payload = %q, want 7", got)
	}

	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	msg = recvWithTimeout(t, out)
	if got := string(msg.Payload()); got != "\n" {
		t.Fatalf("payload = %q, want newline", got)
	}

	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	msg = recvWithTimeout(t, out)
	if got := string(msg.Payload()); got != "\x1b" {
		t.Fatalf("payload = %q, want escape", got)
	}

	// Releases of non-repeatable keys produce nothing.
	in.kbd.ch <- hal.KeyEvent{Rune: '7', Press: false}
	in.kbd.ch <- hal.KeyEvent{Rune: '+', Press: true}
	msg = recvWithTimeout(t, out)
	if got := string(msg.Payload()); got != "+" {
		t.Fatalf("payload = %q, want +", got)
	}
}

func TestPointerForwarded(t *testing.T) {
	k := kernel.New()
	in := &fakeInput{
		kbd: &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)},
		ptr: &fakePointer{ch: make(chan hal.PointerEvent, 8)},
	}
	out := startService(t, k, in)

	in.ptr.ch <- hal.PointerEvent{X: 12, Y: 300, Press: true}
	msg := recvWithTimeout(t, out)
	if proto.Kind(msg.Kind) != proto.MsgPointer {
		t.Fatalf("kind = %s, want pointer", proto.Kind(msg.Kind))
	}
	x, y, press, ok := proto.DecodePointerPayload(msg.Payload())
	if !ok || x != 12 || y != 300 || !press {
		t.Fatalf("decoded %d,%d press=%v ok=%v", x, y, press, ok)
	}

	// Coordinates clamp to the payload range.
	in.ptr.ch <- hal.PointerEvent{X: -5, Y: 70000, Press: false}
	msg = recvWithTimeout(t, out)
	x, y, press, ok = proto.DecodePointerPayload(msg.Payload())
	if !ok || x != 0 || y != 0xffff || press {
		t.Fatalf("decoded %d,%d press=%v ok=%v", x, y, press, ok)
	}
}

func TestBackspaceRepeats(t *testing.T) {
	k := kernel.New()
	in := &fakeInput{kbd: &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}}
	out := startService(t, k, in)

	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyBackspace, Press: true}
	msg := recvWithTimeout(t, out)
	if got := msg.Payload(); len(got) != 1 || got[0] != 0x7f {
		t.Fatalf("payload = %v, want 0x7f", got)
	}

	deadline := time.After(testTimeout)
	var seq uint64
	for {
		seq += repeatDelayTicks
		k.TickTo(seq)
		select {
		case msg := <-out:
			if got := msg.Payload(); len(got) != 1 || got[0] != 0x7f {
				t.Fatalf("repeat payload = %v, want 0x7f", got)
			}
			in.kbd.ch <- hal.KeyEvent{Code: hal.KeyBackspace, Press: false}
			return
		case <-deadline:
			t.Fatal("no key repeat")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDigitsDoNotRepeat(t *testing.T) {
	k := kernel.New()
	in := &fakeInput{kbd: &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}}
	out := startService(t, k, in)

	in.kbd.ch <- hal.KeyEvent{Rune: '9', Press: true}
	msg := recvWithTimeout(t, out)
	if got := string(msg.Payload()); got != "9" {
		t.Fatalf("payload = %q, want 9", got)
	}

	for seq := uint64(repeatDelayTicks); seq <= 4*repeatDelayTicks; seq += repeatDelayTicks {
		k.TickTo(seq)
	}
	select {
	case msg := <-out:
		t.Fatalf("held digit repeated: %q", msg.Payload())
	case <-time.After(50 * time.Millisecond):
	}
}
