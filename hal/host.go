package hal

import (
	"sync"
	"time"

	"lukeforge/studio/capability"
)

const eventQueueDepth = 256

type hostHAL struct {
	logger  *hostLogger
	fb      *hostFramebuffer
	events  *eventQueue
	frames  *FrameQueue
	clock   func() time.Time
	mu      sync.Mutex
	signals capability.Signals
}

// New returns a host HAL with a width x height RGB565 framebuffer.
func New(width, height int) HAL {
	return newHost(width, height, time.Now)
}

func newHost(width, height int, clock func() time.Time) *hostHAL {
	if clock == nil {
		clock = time.Now
	}
	return &hostHAL{
		logger:  newHostLogger(),
		fb:      newHostFramebuffer(width, height),
		events:  newEventQueue(eventQueueDepth),
		frames:  NewFrameQueue(),
		clock:   clock,
		signals: ProbeSignals(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return h.events }
func (h *hostHAL) Frames() Frames   { return h.frames }
func (h *hostHAL) Now() time.Time   { return h.clock() }

func (h *hostHAL) Signals() capability.Signals {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signals
}

func (h *hostHAL) setPixelRatio(r float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.signals.PixelRatio = r
}

// tick runs one platform frame: the app step drains events, then frame callbacks run.
func (h *hostHAL) tick(step func() error) error {
	if step != nil {
		if err := step(); err != nil {
			return err
		}
	}
	h.frames.Run(h.clock())
	return nil
}

// resize reallocates the framebuffer and tells the app.
func (h *hostHAL) resize(w, hgt int) {
	if w <= 0 || hgt <= 0 || (w == h.fb.Width() && hgt == h.fb.Height()) {
		return
	}
	h.fb.resize(w, hgt)
	h.events.emit(Event{Kind: EventResize, W: w, H: hgt})
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// NewOffscreen returns a display backed by an in-memory RGB565 framebuffer that is
// never shown. Callers composite it themselves.
func NewOffscreen(width, height int) Display {
	return hostDisplay{fb: newHostFramebuffer(width, height)}
}
