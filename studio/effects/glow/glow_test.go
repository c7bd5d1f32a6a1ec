package glow

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lukeforge/hal"
	"lukeforge/studio/loop"
	"lukeforge/studio/pointer"
	"lukeforge/studio/quarkgl"
)

func newTarget(w, h int) *quarkgl.RGB565Target {
	return &quarkgl.RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
}

func TestFollowsPointer(t *testing.T) {
	q := hal.NewFrameQueue()
	var s pointer.State
	s.Set(100, 50)

	g := New(q, &s, nil)
	assert.True(t, g.Pending())

	q.Run(time.Now())
	x, y := g.Position()
	assert.InDelta(t, 15, x, 1e-4)
	assert.InDelta(t, 7.5, y, 1e-4)
	assert.True(t, g.Pending())

	for i := 0; i < 200; i++ {
		q.Run(time.Now())
	}
	x, y = g.Position()
	assert.InDelta(t, 100, x, 1e-2)
	assert.InDelta(t, 50, y, 1e-2)
}

func TestDisposeCancelsFrame(t *testing.T) {
	q := hal.NewFrameQueue()
	var s pointer.State
	g := New(q, &s, nil)
	require.Equal(t, 1, q.Pending())

	g.Dispose()
	assert.False(t, g.Pending())
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Run(time.Now()))

	g.Dispose()
}

func TestDisposeDetachesOverlay(t *testing.T) {
	h := hal.New(32, 32)
	host := loop.New(h.Frames(), loop.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, host.Initialize(h.Display()))
	defer host.Dispose()

	var s pointer.State
	s.Set(16, 16)
	g := New(h.Frames(), &s, host)
	for i := 0; i < 100; i++ {
		g.Step()
	}

	host.Start()
	q := h.Frames().(*hal.FrameQueue)
	q.Run(time.Now())
	r, gg, b := hal.Pixel(h.Display().Framebuffer(), 16, 16)
	assert.Zero(t, r)
	assert.Greater(t, gg, uint8(0))
	assert.Greater(t, b, uint8(0))

	g.Dispose()
	q.Run(time.Now())
	r, gg, b = hal.Pixel(h.Display().Framebuffer(), 16, 16)
	assert.Zero(t, r)
	assert.Zero(t, gg)
	assert.Zero(t, b)
}

func TestDrawOverlayFalloff(t *testing.T) {
	var s pointer.State
	g := New(nil, &s, nil)

	tgt := newTarget(40, 40)
	g.DrawOverlay(tgt)
	assert.Equal(t, quarkgl.Color{}, tgt.Pixel(0, 0).WithAlpha(0), "no glow before the pointer moves")

	s.Set(20, 20)
	for i := 0; i < 200; i++ {
		g.Step()
	}
	g.DrawOverlay(tgt)
	center := tgt.Pixel(20, 20)
	edge := tgt.Pixel(28, 20)
	outside := tgt.Pixel(39, 39)
	assert.Greater(t, center.B, edge.B)
	assert.Greater(t, edge.B, uint8(0))
	assert.Zero(t, outside.B)
}

func TestStopAndStart(t *testing.T) {
	q := hal.NewFrameQueue()
	var s pointer.State
	s.Set(100, 0)
	g := New(q, &s, nil)

	g.Stop()
	assert.False(t, g.Pending())
	assert.Zero(t, q.Run(time.Now()))
	x, _ := g.Position()
	assert.Zero(t, x)

	g.Start()
	g.Start()
	assert.Equal(t, 1, q.Pending())
	q.Run(time.Now())
	x, _ = g.Position()
	assert.InDelta(t, 15, x, 1e-4)

	g.Dispose()
	g.Start()
	assert.False(t, g.Pending())
}
