package hal

import (
	"errors"
	"time"

	"lukeforge/studio/capability"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input delivers pointer, keyboard and lifecycle events from the platform.
type Input interface {
	Events() <-chan Event
}

// Frames is a per-frame callback scheduler in the style of requestAnimationFrame.
//
// A requested callback runs once, on the next platform tick, with that tick's timestamp.
type Frames interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// HAL provides the only contact point between the hero and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Frames() Frames
	// Now is the clock the runner stamps frames with.
	Now() time.Time
	// Signals reports what the host knows about its own capabilities.
	Signals() capability.Signals
}
