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
	Width   int
	Height  int

	// Simulated advances a virtual clock by one frame per tick instead of sleeping.
	Simulated bool
	// Start is the virtual clock origin when Simulated is set.
	Start time.Time

	// OnExit, when set, sees the HAL after the last tick.
	OnExit func(HAL)
}

// RunHeadless runs the hero without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 360
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	var h *hostHAL
	if cfg.Simulated {
		now := cfg.Start
		if now.IsZero() {
			now = time.Unix(0, 0)
		}
		h = newHost(cfg.Width, cfg.Height, func() time.Time { return now })
		defer exitHook(cfg.OnExit, h)
		return runSimulated(ctx, h, newApp(h), cfg.Ticks, func() { now = now.Add(d) })
	}

	h = newHost(cfg.Width, cfg.Height, time.Now)
	defer exitHook(cfg.OnExit, h)
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := h.tick(step); err != nil {
				return err
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

func runSimulated(ctx context.Context, h *hostHAL, step func() error, ticks uint64, advance func()) error {
	if ticks == 0 {
		return fmt.Errorf("simulated headless run needs a tick count")
	}
	for i := uint64(0); i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		advance()
		if err := h.tick(step); err != nil {
			return err
		}
	}
	return nil
}

func exitHook(fn func(HAL), h HAL) {
	if fn != nil {
		fn(h)
	}
}
