package wordmark

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"

	"lukeforge/hal"
	"lukeforge/studio/glyphs"
	"lukeforge/studio/loop"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHost(t *testing.T) *loop.Host {
	t.Helper()
	h := hal.New(64, 32)
	host := loop.New(h.Frames(), loop.Options{Logger: quietLogger()})
	require.NoError(t, host.Initialize(h.Display()))
	t.Cleanup(host.Dispose)
	return host
}

type failingSource struct{}

func (failingSource) Font(context.Context) (*glyphs.Font, error) {
	return nil, errors.New("boom")
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestCreateFallsBackOnFontFailure(t *testing.T) {
	host := newHost(t)
	before := host.Scene().Len()

	w, err := Create(context.Background(), host, failingSource{}, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.True(t, w.Fallback())
	assert.Len(t, w.Meshes(), 3)
	assert.Equal(t, before+3, host.Scene().Len())

	w.Dispose()
	w.Dispose()
	assert.Equal(t, before, host.Scene().Len())
}

func TestCreateFallsBackOnSlowFont(t *testing.T) {
	host := newHost(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	w, err := Create(context.Background(), host, glyphs.HTTPSource{URL: srv.URL}, Options{
		FontTimeout: 50 * time.Millisecond,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	assert.True(t, w.Fallback())
	assert.Less(t, time.Since(start), time.Second)
}

func TestCreateBuildsTextFromServedFont(t *testing.T) {
	host := newHost(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(gobold.TTF)
	}))
	defer srv.Close()

	w, err := Create(context.Background(), host, glyphs.HTTPSource{URL: srv.URL}, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.False(t, w.Fallback())
	assert.Len(t, w.Meshes(), 2)

	assert.InDelta(t, 0.8, w.hi.Y-w.lo.Y, 0.05)
	assert.InDelta(t, 0, w.hi.X+w.lo.X, 0.05)
	assert.InDelta(t, 0.2, w.hi.Z-w.lo.Z, 1e-5)
}

func TestCreateWithoutSceneFails(t *testing.T) {
	host := loop.New(hal.NewFrameQueue(), loop.Options{Logger: quietLogger()})
	_, err := Create(context.Background(), host, nil, Options{})
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestPointerDamping(t *testing.T) {
	host := newHost(t)
	w, err := New(host, nil, Options{Logger: quietLogger()})
	require.NoError(t, err)

	w.ReactToPointer(1, 1)
	w.Animate(0.1, 0)
	x, y, _ := w.Rotation()
	assert.InDelta(t, -0.2*0.3, x, 1e-5)
	assert.InDelta(t, 0.3*0.3, y, 1e-5)

	for i := 0; i < 200; i++ {
		w.Animate(0.016, float32(i)*0.016)
	}
	x, y, _ = w.Rotation()
	assert.InDelta(t, -0.2, x, 1e-3)
	assert.InDelta(t, 0.3, y, 1e-3)
}

func TestHoverTweensEmissiveAndScale(t *testing.T) {
	host := newHost(t)
	clock := &fakeClock{now: time.Unix(100, 0)}
	w, err := New(host, nil, Options{Now: clock.Now, Logger: quietLogger()})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, w.Emissive(), 1e-6)

	w.SetHovered(true)
	clock.now = clock.now.Add(150 * time.Millisecond)
	w.Animate(0.15, 0.15)
	// 1-(1-0.5)^3 = 0.875
	assert.InDelta(t, 0.2+0.2*0.875, w.Emissive(), 1e-4)

	clock.now = clock.now.Add(time.Second)
	for i := 0; i < 300; i++ {
		w.Animate(0.016, 1)
	}
	assert.InDelta(t, 0.4, w.Emissive(), 1e-6)
	assert.InDelta(t, 1.05, w.Scale(), 1e-3)

	mat, ok := host.Scene().MeshMaterial(w.Meshes()[0])
	require.True(t, ok)
	assert.InDelta(t, 0.4, mat.EmissiveIntensity, 1e-6)
	accent, _ := host.Scene().MeshMaterial(w.Meshes()[1])
	assert.InDelta(t, 0.5, accent.EmissiveIntensity, 1e-6)

	w.SetHovered(false)
	clock.now = clock.now.Add(time.Second)
	w.Animate(0.016, 2)
	assert.InDelta(t, 0.2, w.Emissive(), 1e-6)
}

func TestRollFreezesWhileHovered(t *testing.T) {
	host := newHost(t)
	w, err := New(host, nil, Options{Logger: quietLogger()})
	require.NoError(t, err)

	w.Animate(0.016, 2)
	_, _, roll := w.Rotation()
	assert.NotZero(t, roll)

	w.SetHovered(true)
	w.Animate(0.016, 7)
	_, _, held := w.Rotation()
	assert.Equal(t, roll, held)
}

func TestHitTest(t *testing.T) {
	host := newHost(t)
	w, err := New(host, nil, Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.True(t, w.HitTest(0, 0))
	assert.False(t, w.HitTest(0, 0.9))
	assert.False(t, w.HitTest(0.99, -0.99))
}

func TestDisposedIgnoresInput(t *testing.T) {
	host := newHost(t)
	w, err := New(host, nil, Options{Logger: quietLogger()})
	require.NoError(t, err)
	w.Dispose()

	w.ReactToPointer(1, 1)
	w.SetHovered(true)
	w.Animate(1, 1)
	assert.False(t, w.Hovered())
	assert.False(t, w.HitTest(0, 0))
	assert.Empty(t, w.Meshes())
}
