//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	// OnTick runs after every step, with the host, for front-ends that
	// render the console themselves.
	OnTick func(*Host)
}

// RunHeadless runs the console without opening a window.
func RunHeadless(ctx context.Context, hc HostConfig, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 200
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := NewHost(hc)
	defer h.Close()
	step := newApp(h)
	return RunHost(ctx, h, step, d, cfg)
}

// RunHost steps an existing host every d until ctx ends or cfg.Ticks steps
// have run.
func RunHost(ctx context.Context, h *Host, step func() error, d time.Duration, cfg HeadlessConfig) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.panel.Update()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if cfg.OnTick != nil {
				cfg.OnTick(h)
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
