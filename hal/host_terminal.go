package hal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the terminal runner.
type TerminalConfig struct {
	Hz    int
	Ticks uint64
}

// RunTerminal renders the framebuffer into the controlling terminal using
// half-block cells, two framebuffer rows per terminal row.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, cfg TerminalConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	return runTerminal(ctx, screen, newApp, cfg)
}

func runTerminal(ctx context.Context, screen tcell.Screen, newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid terminal hz: %d", cfg.Hz)
	}

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	cols, rows := screen.Size()
	h := newHost(cols, rows*2, time.Now)
	step := newApp(h)

	// PollEvent blocks, so it gets its own goroutine; translation into HAL events
	// happens on the tick goroutine.
	raw := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case raw <- ev:
			case <-quit:
				return
			}
		}
	}()

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-raw:
			translateTerminalEvent(h, ev)
		case <-t.C:
			if err := h.tick(step); err != nil {
				return err
			}
			blitTerminal(screen, h.fb)
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

func translateTerminalEvent(h *hostHAL, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, rows := ev.Size()
		h.resize(w, rows*2)
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.events.emit(Event{Kind: EventPointerMove, X: x, Y: y * 2})
	case *tcell.EventFocus:
		if ev.Focused {
			h.events.emit(Event{Kind: EventFocus})
		} else {
			h.events.emit(Event{Kind: EventBlur})
		}
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			h.events.emit(Event{Kind: EventClose})
		case tcell.KeyEscape:
			h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyEscape, Press: true}})
		case tcell.KeyTab:
			h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyTab, Press: true}})
		case tcell.KeyEnter:
			h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyEnter, Press: true}})
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				h.events.emit(Event{Kind: EventClose})
				return
			}
			h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Press: true, Rune: ev.Rune()}})
		}
	}
}

// blitTerminal draws each pair of framebuffer rows as one row of upper-half blocks.
func blitTerminal(screen tcell.Screen, fb *hostFramebuffer) {
	cols, rows := screen.Size()
	w, h := fb.Width(), fb.Height()
	for cy := 0; cy < rows; cy++ {
		top, bottom := cy*2, cy*2+1
		for cx := 0; cx < cols; cx++ {
			if cx >= w || top >= h {
				screen.SetContent(cx, cy, ' ', nil, tcell.StyleDefault)
				continue
			}
			tr, tg, tb := Pixel(fb, cx, top)
			br, bg, bb := Pixel(fb, cx, bottom)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb))).
				Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))
			screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	screen.Show()
}
