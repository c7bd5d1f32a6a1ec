// Package glyphs fetches a remote font and rasterizes text into a coarse cell mask
// that effects extrude into geometry.
package glyphs

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MaxFontBytes bounds a fetched font file.
const MaxFontBytes = 8 << 20

var (
	ErrFetch    = errors.New("glyphs: fetch failed")
	ErrTooLarge = errors.New("glyphs: font file too large")
	ErrEmpty    = errors.New("glyphs: nothing to rasterize")
)

// Font is a parsed TrueType/OpenType font.
type Font struct {
	f *opentype.Font
}

// Parse parses TrueType or OpenType data.
func Parse(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyphs: parse: %w", err)
	}
	return &Font{f: f}, nil
}

// Source produces a font. Implementations must honor ctx cancellation.
type Source interface {
	Font(ctx context.Context) (*Font, error)
}

// HTTPSource fetches a font file with an HTTP GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Font(ctx context.Context) (*Font, error) {
	data, err := Fetch(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// BytesSource serves an in-memory font file.
type BytesSource []byte

func (b BytesSource) Font(ctx context.Context) (*Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(b)
}

// Fetch downloads url. Any non-2xx status is an error wrapping ErrFetch.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFontBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrFetch, err)
	}
	if len(data) > MaxFontBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Mask is a row-major grid of filled cells; row 0 is the top.
type Mask struct {
	W, H  int
	Cells []bool
}

func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Cells[y*m.W+x]
}

// Run is a horizontal span of filled cells.
type Run struct {
	X, Y, Len int
}

// Runs returns maximal horizontal runs, top row first.
func (m *Mask) Runs() []Run {
	var runs []Run
	for y := 0; y < m.H; y++ {
		x := 0
		for x < m.W {
			if !m.At(x, y) {
				x++
				continue
			}
			start := x
			for x < m.W && m.At(x, y) {
				x++
			}
			runs = append(runs, Run{X: start, Y: y, Len: x - start})
		}
	}
	return runs
}

// Rasterize draws text at px pixels per em and thresholds coverage into a mask
// trimmed to the inked bounds.
func (f *Font) Rasterize(text string, px float64) (*Mask, error) {
	if f == nil || text == "" {
		return nil, ErrEmpty
	}
	face, err := opentype.NewFace(f.f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("glyphs: face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	w := font.MeasureString(face, text).Ceil() + 2
	h := ascent + metrics.Descent.Ceil()
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: dst, Src: image.Opaque, Face: face, Dot: fixed.P(1, ascent)}
	d.DrawString(text)

	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if dst.AlphaAt(x, y).A < 0x80 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return nil, ErrEmpty
	}

	m := &Mask{W: maxX - minX + 1, H: maxY - minY + 1}
	m.Cells = make([]bool, m.W*m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			m.Cells[y*m.W+x] = dst.AlphaAt(minX+x, minY+y).A >= 0x80
		}
	}
	return m, nil
}
