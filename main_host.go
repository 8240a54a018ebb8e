//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"tally/app"
	"tally/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	var sleepAfter uint64
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.Uint64Var(&sleepAfter, "sleep-after", app.DefaultSleepAfterTicks, "Idle ticks before the display sleeps (0 = never).")
	flag.Parse()

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, func(h hal.HAL) func() error {
			return app.NewWithConfig(h, app.Config{SleepAfterTicks: sleepAfter})
		}, cfg); err != nil {
			if err == context.Canceled || err == app.ErrQuit {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(func(h hal.HAL) func() error {
		return app.NewWithConfig(h, app.Config{SleepAfterTicks: sleepAfter})
	}); err != nil {
		if err == app.ErrQuit {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
