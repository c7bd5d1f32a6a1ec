package hal

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

func TestRunHeadlessSimulatedAdvancesClock(t *testing.T) {
	var stamps []time.Time
	var frames int
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		var loop func(time.Time)
		loop = func(now time.Time) {
			frames++
			stamps = append(stamps, now)
			h.Frames().RequestFrame(loop)
		}
		h.Frames().RequestFrame(loop)
		return func() error { return nil }
	}, HeadlessConfig{Hz: 50, Ticks: 4, Simulated: true, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if frames != 4 {
		t.Fatalf("frames = %d, want 4", frames)
	}
	if d := stamps[3].Sub(stamps[2]); d != 20*time.Millisecond {
		t.Fatalf("frame spacing = %v, want 20ms", d)
	}
}

func TestRunHeadlessStopsOnStepError(t *testing.T) {
	errDone := errors.New("done")
	n := 0
	err := RunHeadless(context.Background(), func(HAL) func() error {
		return func() error {
			n++
			if n == 2 {
				return errDone
			}
			return nil
		}
	}, HeadlessConfig{Ticks: 10, Simulated: true})
	if !errors.Is(err, errDone) {
		t.Fatalf("err = %v, want errDone", err)
	}
}

func TestHostResizeEmitsEvent(t *testing.T) {
	h := newHost(4, 4, nil)
	h.resize(4, 4)
	h.resize(10, 6)
	select {
	case ev := <-h.Input().Events():
		if ev.Kind != EventResize || ev.W != 10 || ev.H != 6 {
			t.Fatalf("event = %+v", ev)
		}
	default:
		t.Fatal("no resize event")
	}
	fb := h.Display().Framebuffer()
	if fb.Width() != 10 || fb.Height() != 6 || len(fb.Buffer()) != 10*6*2 {
		t.Fatalf("framebuffer %dx%d len %d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
}

func TestFramebufferDisplayerWithTinyfont(t *testing.T) {
	fb := newHostFramebuffer(120, 40)
	d := FramebufferDisplayer{FB: fb}
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 2, 24, "LF", color.RGBA{R: 255, G: 255, B: 255, A: 255})

	lit := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if r, _, _ := Pixel(fb, x, y); r > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("tinyfont drew nothing")
	}
}

func TestRunTerminalBlitsHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(8, 4)

	var size [2]int
	err := runTerminal(context.Background(), screen, func(h HAL) func() error {
		fb := h.Display().Framebuffer()
		size = [2]int{fb.Width(), fb.Height()}
		return func() error {
			fb.ClearRGB(255, 0, 0)
			return nil
		}
	}, TerminalConfig{Hz: 200, Ticks: 2})
	if err != nil {
		t.Fatalf("runTerminal: %v", err)
	}
	if size != [2]int{8, 8} {
		t.Fatalf("framebuffer size = %v, want [8 8]", size)
	}
	r, _, _, _ := screen.GetContent(3, 2)
	if r != '▀' {
		t.Fatalf("cell rune = %q", r)
	}
}

func TestTranslateTerminalEvents(t *testing.T) {
	h := newHost(10, 10, nil)
	translateTerminalEvent(h, tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))
	translateTerminalEvent(h, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))

	ev := <-h.Input().Events()
	if ev.Kind != EventPointerMove || ev.X != 3 || ev.Y != 4 {
		t.Fatalf("mouse event = %+v", ev)
	}
	ev = <-h.Input().Events()
	if ev.Kind != EventClose {
		t.Fatalf("key event = %+v", ev)
	}
}
