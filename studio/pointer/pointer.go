// Package pointer holds the shared pointer position read by effects each frame.
package pointer

import (
	"math"
	"sync/atomic"
)

// State is a single-writer, multi-reader pointer position.
//
// The coordinates are stored as one packed word so a reader never sees x from one
// write and y from another.
type State struct {
	xy     atomic.Uint64
	bounds atomic.Uint64
	moved  atomic.Bool
}

func pack(a, b float32) uint64 {
	return uint64(math.Float32bits(a))<<32 | uint64(math.Float32bits(b))
}

func unpack(v uint64) (float32, float32) {
	return math.Float32frombits(uint32(v >> 32)), math.Float32frombits(uint32(v))
}

// SetBounds records the viewport size used by Normalized.
func (s *State) SetBounds(w, h int) {
	s.bounds.Store(pack(float32(w), float32(h)))
}

// Bounds returns the last viewport size.
func (s *State) Bounds() (w, h float32) {
	return unpack(s.bounds.Load())
}

// Set records a raw pointer position in viewport pixels.
func (s *State) Set(x, y float32) {
	s.xy.Store(pack(x, y))
	s.moved.Store(true)
}

// Get returns the last raw position.
func (s *State) Get() (x, y float32) {
	return unpack(s.xy.Load())
}

// Moved reports whether Set has been called.
func (s *State) Moved() bool { return s.moved.Load() }

// Normalized maps the raw position into [-1, 1] on both axes with +y up.
// It returns (0, 0) until bounds are known.
func (s *State) Normalized() (x, y float32) {
	w, h := s.Bounds()
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	px, py := s.Get()
	return clamp(px/w*2-1, -1, 1), clamp(-(py/h*2 - 1), -1, 1)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
