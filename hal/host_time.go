//go:build !tinygo

package hal

import "time"

// tickDuration is the base tick. Idle timeouts and key repeat are
// counted in these units.
const tickDuration = time.Millisecond

// hostTime converts wall time into the base tick stream. The window
// and headless runners call step once per frame; elapsed time between
// frames is carried over so the tick rate stays honest at any frame
// rate.
type hostTime struct {
	ch    chan uint64
	seq   uint64
	last  time.Time
	carry time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(n uint64) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.emit(n)
		return
	}

	elapsed := now.Sub(t.last) + t.carry
	t.last = now

	ticks := uint64(elapsed / tickDuration)
	t.carry = elapsed % tickDuration
	if ticks > 0 {
		t.emit(ticks)
	}
}

func (t *hostTime) emit(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
