package loop

import (
	"errors"
	"fmt"
)

var (
	ErrNoFramebuffer      = errors.New("loop: container has no framebuffer")
	ErrUnsupportedFormat  = errors.New("loop: unsupported pixel format")
	ErrZeroSize           = errors.New("loop: framebuffer has zero size")
	ErrAlreadyInitialized = errors.New("loop: host already initialized")
	ErrDisposed           = errors.New("loop: host disposed")
)

// SurfaceInitError reports that no drawable surface could be created. Callers
// fall back to a static presentation.
type SurfaceInitError struct {
	Err error
}

func (e *SurfaceInitError) Error() string {
	return fmt.Sprintf("loop: surface init: %v", e.Err)
}

func (e *SurfaceInitError) Unwrap() error { return e.Err }

// CallbackPanicError describes a recovered panic in a frame callback.
type CallbackPanicError struct {
	Index int
	Value any
	Stack []byte
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("loop: frame callback %d panicked: %v", e.Index, e.Value)
}
