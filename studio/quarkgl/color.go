package quarkgl

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Hex converts a 0xRRGGBB literal into an opaque Color.
func Hex(v uint32) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

func (c Color) MulScalar(s Scalar) Color {
	if s < 0 {
		s = 0
	}
	mul := func(ch uint8) uint8 {
		return uint8(clampF32(float32(ch)*s, 0, 255))
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

// AddSat adds o to c per channel, saturating at 255. Alpha is kept from c.
func (c Color) AddSat(o Color) Color {
	add := func(a, b uint8) uint8 {
		v := uint16(a) + uint16(b)
		if v > 0xFF {
			return 0xFF
		}
		return uint8(v)
	}
	return Color{R: add(c.R, o.R), G: add(c.G, o.G), B: add(c.B, o.B), A: c.A}
}

// Lerp blends a toward b by t in [0,1].
func Lerp(a, b Color, t Scalar) Color {
	t = Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(clampF32(float32(x)+(float32(y)-float32(x))*t+0.5, 0, 255))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }
