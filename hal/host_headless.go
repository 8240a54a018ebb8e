//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
}

// RunHeadless runs the OS without opening a window. Keystrokes are
// read from stdin, so key sequences can be piped into the appliance.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	interval := time.Second / time.Duration(cfg.Hz)
	if interval <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := New().(*hostHAL)
	step := newApp(h)
	go feedStdinKeys(h.kbd.ch)

	t := time.NewTicker(interval)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// feedStdinKeys turns stdin bytes into key events. Bytes pass through
// unmodified as rune events, so VT100 sequences survive the trip and
// control bytes keep their meaning.
func feedStdinKeys(ch chan<- KeyEvent) {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		for _, b := range buf[:n] {
			if b == 0 {
				continue
			}
			ch <- KeyEvent{Rune: rune(b), Press: true}
		}
		if err != nil {
			return
		}
	}
}
