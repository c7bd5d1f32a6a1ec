package hal

// EventKind identifies a platform event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventPointerMove
	EventPointerLeave
	EventResize
	EventHidden
	EventVisible
	EventFocus
	EventBlur
	EventKey
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer-move"
	case EventPointerLeave:
		return "pointer-leave"
	case EventResize:
		return "resize"
	case EventHidden:
		return "hidden"
	case EventVisible:
		return "visible"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventKey:
		return "key"
	case EventClose:
		return "close"
	default:
		return "none"
	}
}

// Event is a single platform event.
//
// X and Y are framebuffer pixel coordinates for pointer events; W and H carry the new
// framebuffer size for EventResize.
type Event struct {
	Kind EventKind
	X, Y int
	W, H int
	Key  KeyEvent
}

// eventQueue is a bounded, non-blocking event channel.
type eventQueue struct {
	ch chan Event
}

func newEventQueue(n int) *eventQueue {
	return &eventQueue{ch: make(chan Event, n)}
}

func (q *eventQueue) Events() <-chan Event { return q.ch }

// emit drops the event when the queue is full.
func (q *eventQueue) emit(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}
