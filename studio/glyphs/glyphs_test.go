package glyphs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
)

func TestRasterizeProducesTrimmedMask(t *testing.T) {
	f, err := Parse(gobold.TTF)
	require.NoError(t, err)

	m, err := f.Rasterize("LF", 24)
	require.NoError(t, err)
	assert.Greater(t, m.W, m.H/2)
	assert.Greater(t, m.H, 10)

	// Trimmed: the first column and the first row are inked somewhere.
	col, row := false, false
	for y := 0; y < m.H; y++ {
		col = col || m.At(0, y)
	}
	for x := 0; x < m.W; x++ {
		row = row || m.At(x, 0)
	}
	assert.True(t, col)
	assert.True(t, row)

	// The stem of the L fills the bottom-left corner.
	assert.True(t, m.At(0, m.H-1))

	_, err = f.Rasterize("", 24)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = f.Rasterize("   ", 24)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRuns(t *testing.T) {
	m := &Mask{W: 5, H: 2, Cells: []bool{
		true, true, false, true, false,
		false, false, false, true, true,
	}}
	assert.Equal(t, []Run{{0, 0, 2}, {3, 0, 1}, {3, 1, 2}}, m.Runs())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not a font"))
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bold.ttf":
			w.Write(gobold.TTF)
		case "/slow.ttf":
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := HTTPSource{URL: srv.URL + "/bold.ttf", Client: srv.Client()}.Font(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f)

	_, err = HTTPSource{URL: srv.URL + "/missing.ttf", Client: srv.Client()}.Font(context.Background())
	assert.ErrorIs(t, err, ErrFetch)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = HTTPSource{URL: srv.URL + "/slow.ttf", Client: srv.Client()}.Font(ctx)
	assert.ErrorIs(t, err, ErrFetch)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBytesSourceHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BytesSource(gobold.TTF).Font(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
