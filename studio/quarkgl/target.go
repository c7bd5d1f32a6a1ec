package quarkgl

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Pixel(x, y int) Color
	Clear(c Color)
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderWireframe RenderMode = iota
	RenderSolidFlat
	RenderSolidVertexColor
)

// blendPixel mixes c over the current pixel with alpha a in [0,1].
func blendPixel(t Target, x, y int, c Color, a float32) {
	if a <= 0 {
		return
	}
	if a >= 1 {
		t.SetPixel(x, y, c)
		return
	}
	t.SetPixel(x, y, Lerp(t.Pixel(x, y), c, a))
}

// addPixel adds c scaled by a to the current pixel.
func addPixel(t Target, x, y int, c Color, a float32) {
	if a <= 0 {
		return
	}
	t.SetPixel(x, y, t.Pixel(x, y).AddSat(c.MulScalar(a)))
}
