package hal

import (
	"sync"
	"time"
)

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// FrameQueue is the Frames implementation runners pump once per tick.
//
// Callbacks requested while a batch runs are deferred to the next Run.
// Cancelling a request that has not run yet, including one in the running batch,
// prevents it from running.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending []frameRequest
	running []frameRequest
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameID {
	if fn == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.pending {
		if q.pending[i].id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// Run invokes every callback requested before this call and returns how many ran.
func (q *FrameQueue) Run(now time.Time) int {
	q.mu.Lock()
	q.running, q.pending = q.pending, q.running[:0]
	n := len(q.running)
	q.mu.Unlock()

	ran := 0
	for i := 0; i < n; i++ {
		q.mu.Lock()
		fn := q.running[i].fn
		q.running[i].fn = nil
		q.mu.Unlock()
		if fn == nil {
			continue
		}
		fn(now)
		ran++
	}

	q.mu.Lock()
	q.running = q.running[:0]
	q.mu.Unlock()
	return ran
}

// Pending returns the number of callbacks waiting for the next Run.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
