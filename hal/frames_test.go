package hal

import (
	"testing"
	"time"
)

func TestFrameQueueRunsOncePerRequest(t *testing.T) {
	q := NewFrameQueue()
	var calls int
	var got time.Time
	q.RequestFrame(func(now time.Time) { calls++; got = now })

	now := time.Unix(10, 0)
	if n := q.Run(now); n != 1 {
		t.Fatalf("Run ran %d callbacks, want 1", n)
	}
	if !got.Equal(now) {
		t.Fatalf("callback saw %v, want %v", got, now)
	}
	if n := q.Run(now); n != 0 || calls != 1 {
		t.Fatalf("second Run ran %d (calls=%d), want 0", n, calls)
	}
}

func TestFrameQueueDefersRequestsMadeDuringRun(t *testing.T) {
	q := NewFrameQueue()
	var ticks int
	var loop func(time.Time)
	loop = func(time.Time) {
		ticks++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	for i := 0; i < 3; i++ {
		q.Run(time.Unix(int64(i), 0))
	}
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
	if q.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", q.Pending())
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	id := q.RequestFrame(func(time.Time) { ran = true })
	q.CancelFrame(id)
	q.Run(time.Now())
	if ran {
		t.Fatal("cancelled frame ran")
	}

	// Cancelling a later callback of the batch from an earlier one.
	var second FrameID
	q.RequestFrame(func(time.Time) { q.CancelFrame(second) })
	second = q.RequestFrame(func(time.Time) { ran = true })
	if n := q.Run(time.Now()); n != 1 {
		t.Fatalf("Run ran %d, want 1", n)
	}
	if ran {
		t.Fatal("frame cancelled mid-batch still ran")
	}

	q.CancelFrame(0)
	q.CancelFrame(12345)
	if q.RequestFrame(nil) != 0 {
		t.Fatal("nil callback got an id")
	}
}
