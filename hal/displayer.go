package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// FramebufferDisplayer lets tinyfont and other tinygo drivers draw into an RGB565 framebuffer.
type FramebufferDisplayer struct {
	FB Framebuffer
}

var _ drivers.Displayer = FramebufferDisplayer{}

func (d FramebufferDisplayer) Size() (x, y int16) {
	if d.FB == nil {
		return 0, 0
	}
	return int16(d.FB.Width()), int16(d.FB.Height())
}

func (d FramebufferDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.FB == nil || d.FB.Format() != PixelFormatRGB565 {
		return
	}
	buf := d.FB.Buffer()
	if buf == nil {
		return
	}

	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.FB.Width() || iy < 0 || iy >= d.FB.Height() {
		return
	}
	off := iy*d.FB.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := rgb565(c.R, c.G, c.B)
	if c.A < 0xFF {
		r, g, b := rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
		a := uint16(c.A)
		pixel = rgb565(
			uint8((uint16(c.R)*a+uint16(r)*(255-a))/255),
			uint8((uint16(c.G)*a+uint16(g)*(255-a))/255),
			uint8((uint16(c.B)*a+uint16(b)*(255-a))/255),
		)
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d FramebufferDisplayer) Display() error {
	if d.FB == nil {
		return nil
	}
	return d.FB.Present()
}

// Pixel reads back an RGB565 pixel as 8-bit channels.
func Pixel(fb Framebuffer, x, y int) (r, g, b uint8) {
	if fb == nil || x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return 0, 0, 0
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return 0, 0, 0
	}
	return rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
}
