// Package glow draws a soft light that trails the pointer.
package glow

import (
	"time"

	"lukeforge/hal"
	"lukeforge/studio/loop"
	"lukeforge/studio/pointer"
	"lukeforge/studio/quarkgl"
)

const (
	followRate = 0.15
	peak       = 0.25
	minRadius  = 4
)

var color = quarkgl.Hex(0x00D4FF)

// Glow follows the pointer on its own frame loop and draws as a host overlay.
type Glow struct {
	frames hal.Frames
	state  *pointer.State
	host   *loop.Host

	frameFn func(time.Time)
	frameID hal.FrameID

	x, y     float32
	disposed bool
}

// New starts the glow loop on frames and attaches the overlay to host.
func New(frames hal.Frames, state *pointer.State, host *loop.Host) *Glow {
	g := &Glow{frames: frames, state: state, host: host}
	g.frameFn = g.frame
	if host != nil {
		host.AddOverlay(g)
	}
	if frames != nil {
		g.frameID = frames.RequestFrame(g.frameFn)
	}
	return g
}

func (g *Glow) frame(time.Time) {
	g.frameID = 0
	if g.disposed {
		return
	}
	g.Step()
	g.frameID = g.frames.RequestFrame(g.frameFn)
}

// Stop cancels the pending frame. The overlay stays attached.
func (g *Glow) Stop() {
	if g.frameID != 0 {
		g.frames.CancelFrame(g.frameID)
		g.frameID = 0
	}
}

// Start resumes the loop after Stop. It is a no-op while a frame is pending or
// after Dispose.
func (g *Glow) Start() {
	if g.disposed || g.frames == nil || g.frameID != 0 {
		return
	}
	g.frameID = g.frames.RequestFrame(g.frameFn)
}

// Step moves the glow a fixed fraction toward the pointer.
func (g *Glow) Step() {
	if g.state == nil {
		return
	}
	tx, ty := g.state.Get()
	g.x += (tx - g.x) * followRate
	g.y += (ty - g.y) * followRate
}

// Position returns the current glow center in pixels.
func (g *Glow) Position() (x, y float32) { return g.x, g.y }

// Pending reports whether a frame request is outstanding.
func (g *Glow) Pending() bool { return g.frameID != 0 }

// DrawOverlay adds a radial falloff centered on the current position.
func (g *Glow) DrawOverlay(t quarkgl.Target) {
	if g.disposed || g.state == nil || !g.state.Moved() {
		return
	}
	w, h := t.Size()
	radius := float32(min(w, h)) / 4
	if radius < minRadius {
		radius = minRadius
	}
	cx, cy := int(g.x), int(g.y)
	r := int(radius)
	inv := 1 / (radius * radius)
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			x := cx + dx
			if x < 0 || x >= w {
				continue
			}
			d2 := float32(dx*dx+dy*dy) * inv
			if d2 >= 1 {
				continue
			}
			f := (1 - d2) * (1 - d2) * peak
			t.SetPixel(x, y, t.Pixel(x, y).AddSat(color.MulScalar(f)))
		}
	}
}

// Dispose cancels the pending frame and detaches the overlay. It is idempotent.
func (g *Glow) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	if g.frames != nil && g.frameID != 0 {
		g.frames.CancelFrame(g.frameID)
		g.frameID = 0
	}
	if g.host != nil {
		g.host.RemoveOverlay(g)
	}
}

var _ loop.Overlay = (*Glow)(nil)
