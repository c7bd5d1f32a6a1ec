package app

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"lukeforge/hal"
	"lukeforge/studio/glyphs"
	"lukeforge/studio/quarkgl"
)

var (
	staticBrand   = color.RGBA{R: 0x00, G: 0xD4, B: 0xFF, A: 0xFF}
	staticTagline = color.RGBA{R: 0xF0, G: 0xF9, B: 0xFF, A: 0xFF}
	lineHeight    = int16(12)
)

// drawStatic paints the motionless hero: the wordmark and the tagline centered on black.
// font may be nil, in which case the wordmark is set in the bitmap UI font.
func drawStatic(fb hal.Framebuffer, font *glyphs.Font, text, tagline string) error {
	if fb == nil {
		return nil
	}
	fb.ClearRGB(0, 0, 0)
	d := hal.FramebufferDisplayer{FB: fb}
	w, h := fb.Width(), fb.Height()

	markBottom := h / 2
	if m := fitMask(font, text, w*4/5, h/3); m != nil {
		x0, y0 := (w-m.W)/2, h/2-m.H
		for _, r := range m.Runs() {
			for x := r.X; x < r.X+r.Len; x++ {
				d.SetPixel(int16(x0+x), int16(y0+r.Y), staticBrand)
			}
		}
	} else {
		writeCentered(d, w, int16(h/2)-lineHeight/2, text, staticBrand)
	}
	writeCentered(d, w, int16(markBottom)+lineHeight+4, tagline, staticTagline)
	return d.Display()
}

// fitMask rasterizes text at the largest size, stepping down by 20%, that fits
// maxW x maxH.
func fitMask(font *glyphs.Font, text string, maxW, maxH int) *glyphs.Mask {
	if font == nil || maxW <= 0 || maxH <= 0 {
		return nil
	}
	for px := float64(maxH); px >= 6; px *= 0.8 {
		m, err := font.Rasterize(text, px)
		if err != nil {
			return nil
		}
		if m.W <= maxW && m.H <= maxH {
			return m
		}
	}
	return nil
}

func writeCentered(d hal.FramebufferDisplayer, width int, y int16, s string, c color.RGBA) {
	if s == "" {
		return
	}
	_, outbox := tinyfont.LineWidth(&proggy.TinySZ8pt7b, s)
	x := (int16(width) - int16(outbox)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, x, y, s, c)
}

// hud is a one-line status overlay.
type hud struct {
	text func() string
}

func (o *hud) DrawOverlay(t quarkgl.Target) {
	tinyfont.WriteLine(targetDisplayer{t: t}, &proggy.TinySZ8pt7b, 2, lineHeight, o.text(), staticTagline)
}

// targetDisplayer lets tinyfont draw into a render target.
type targetDisplayer struct {
	t quarkgl.Target
}

func (d targetDisplayer) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d targetDisplayer) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), quarkgl.RGBA(c.R, c.G, c.B, c.A))
}

func (d targetDisplayer) Display() error { return nil }
