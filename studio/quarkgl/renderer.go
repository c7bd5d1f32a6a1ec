package quarkgl

import "github.com/chewxy/math32"

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depthBuf []float32
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

// Release drops the depth buffer. The renderer can be reused after EnableDepth.
func (r *Renderer) Release() {
	if r == nil {
		return
	}
	r.depthBuf = nil
	r.Depth = false
}

// Allocated reports whether the renderer holds a depth buffer.
func (r *Renderer) Allocated() bool { return r != nil && r.depthBuf != nil }

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

type meshPass uint8

const (
	passOpaque meshPass = iota
	passTranslucent
)

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := Scalar(1)
	if h != 0 {
		aspect = float32(w) / float32(h)
	}
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)

	for _, pass := range [...]meshPass{passOpaque, passTranslucent} {
		s.eachMesh(func(m *Mesh) {
			if m == nil || !m.Enabled || meshPassOf(m.Material) != pass {
				return
			}
			r.renderMesh(t, w, h, proj, view, m, s, pass)
		})
	}
	s.eachPoints(func(pc *PointCloud) {
		if !pc.Enabled {
			return
		}
		r.renderPoints(t, w, h, proj, view, pc, s.Fog)
	})
}

func meshPassOf(mat Material) meshPass {
	if mat.Opacity < 0xFF || mat.Wireframe {
		return passTranslucent
	}
	return passOpaque
}

func (r *Renderer) renderMesh(t Target, w, h int, proj, view Mat4, m *Mesh, s *Scene, pass meshPass) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	model := m.Transform
	if model == (Mat4{}) {
		model = Mat4Identity()
	}

	mvp := Mat4Mul(proj, Mat4Mul(view, model))
	alpha := float32(m.Material.Opacity) / 255
	wire := m.Material.Wireframe || r.Mode == RenderWireframe

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}

		v0 := m.Vertices[i0]
		v1 := m.Vertices[i1]
		v2 := m.Vertices[i2]

		p0 := Mat4MulV4(mvp, Vec4{X: v0.Pos.X, Y: v0.Pos.Y, Z: v0.Pos.Z, W: 1})
		p1 := Mat4MulV4(mvp, Vec4{X: v1.Pos.X, Y: v1.Pos.Y, Z: v1.Pos.Z, W: 1})
		p2 := Mat4MulV4(mvp, Vec4{X: v2.Pos.X, Y: v2.Pos.Y, Z: v2.Pos.Z, W: 1})

		// Trivial clip: drop triangles with any vertex behind the eye.
		if p0.W <= 0 || p1.W <= 0 || p2.W <= 0 {
			continue
		}

		ndc0 := clipToNDC(p0)
		ndc1 := clipToNDC(p1)
		ndc2 := clipToNDC(p2)

		x0, y0 := ndcToScreen(ndc0, w, h)
		x1, y1 := ndcToScreen(ndc1, w, h)
		x2, y2 := ndcToScreen(ndc2, w, h)

		w0 := TransformPoint(model, v0.Pos)
		w1 := TransformPoint(model, v1.Pos)
		w2 := TransformPoint(model, v2.Pos)
		centroid := w0.Add(w1).Add(w2).Mul(1.0 / 3)
		base := shade(m.Material, &s.Lighting, triangleNormal(w0, w1, w2), centroid)
		if f := s.Fog.factor(-TransformPoint(view, centroid).Z); f > 0 {
			base = Lerp(base, s.Fog.Color, f)
		}

		switch {
		case wire:
			r.drawLine(t, x0, y0, x1, y1, base, alpha)
			r.drawLine(t, x1, y1, x2, y2, base, alpha)
			r.drawLine(t, x2, y2, x0, y0, base, alpha)
		case r.Mode == RenderSolidVertexColor && pass == passOpaque:
			r.fillTriangle(t, w, h, x0, y0, ndc0.Z, v0.Color, x1, y1, ndc1.Z, v1.Color, x2, y2, ndc2.Z, v2.Color)
		default:
			r.fillTriangleFlat(t, w, h, x0, y0, ndc0.Z, x1, y1, ndc1.Z, x2, y2, ndc2.Z, base, alpha, pass == passOpaque)
		}
	}
}

func (r *Renderer) renderPoints(t Target, w, h int, proj, view Mat4, pc *PointCloud, fog Fog) {
	if len(pc.Positions) == 0 || pc.Opacity <= 0 {
		return
	}
	model := pc.Transform
	if model == (Mat4{}) {
		model = Mat4Identity()
	}
	mv := Mat4Mul(view, model)
	focal := proj[5] * float32(h) / 2

	for i, p := range pc.Positions {
		eye := TransformPoint(mv, p)
		depth := -eye.Z
		if depth <= 0 {
			continue
		}
		clip := Mat4MulV4(proj, Vec4{X: eye.X, Y: eye.Y, Z: eye.Z, W: 1})
		if clip.W <= 0 {
			continue
		}
		ndc := clipToNDC(clip)
		cx, cy := ndcToScreen(ndc, w, h)

		size := pc.BaseSize
		if i < len(pc.Sizes) {
			size = pc.Sizes[i]
		}
		if pc.Pulse {
			size *= math32.Sin(pc.Time*2+p.X*0.5)*0.3 + 1
		}
		var diameter float32
		if pc.Attenuation > 0 {
			diameter = size * pc.Attenuation / depth * float32(h) / 1000
		} else {
			diameter = size * focal / depth
		}

		c := pc.BaseColor
		if i < len(pc.Colors) {
			c = pc.Colors[i]
		}
		r.drawSprite(t, w, h, cx, cy, ndc.Z, diameter/2, c, Clamp01(pc.Opacity)*(1-fog.factor(depth)))
	}
}

// drawSprite draws an additive disc with a soft edge.
func (r *Renderer) drawSprite(t Target, w, h, cx, cy int, z, radius float32, c Color, opacity float32) {
	if radius < 0.5 {
		if cx >= 0 && cy >= 0 && cx < w && cy < h && r.depthVisible(w, cx, cy, z) {
			addPixel(t, cx, cy, c, opacity*radius*2)
		}
		return
	}
	ri := int(radius + 0.5)
	for dy := -ri; dy <= ri; dy++ {
		y := cy + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -ri; dx <= ri; dx++ {
			x := cx + dx
			if x < 0 || x >= w {
				continue
			}
			d := math32.Sqrt(float32(dx*dx+dy*dy)) / radius
			if d > 1 {
				continue
			}
			if !r.depthVisible(w, x, y, z) {
				continue
			}
			addPixel(t, x, y, c, (1-smoothstep(0.6, 1, d))*opacity)
		}
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) ndcPoint {
	invW := 1 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(math32.Floor(sx + 0.5)), int(math32.Floor(sy + 0.5))
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

// shade computes a flat, two-sided lit color for a triangle.
func shade(mat Material, l *Lighting, n, p Vec3) Color {
	if mat.Unlit || l == nil {
		return mat.BaseColor
	}
	lr := float32(l.Ambient.R) / 255 * l.AmbientIntensity
	lg := float32(l.Ambient.G) / 255 * l.AmbientIntensity
	lb := float32(l.Ambient.B) / 255 * l.AmbientIntensity

	accumulate := func(c Color, amount float32) {
		lr += float32(c.R) / 255 * amount
		lg += float32(c.G) / 255 * amount
		lb += float32(c.B) / 255 * amount
	}
	for _, d := range l.Directional {
		ld := Normalize(d.Position)
		if ld == (Vec3{}) {
			continue
		}
		accumulate(d.Color, math32.Abs(Dot(n, ld))*d.Intensity)
	}
	for _, pt := range l.Points {
		v := pt.Position.Sub(p)
		dist := Len(v)
		if dist == 0 {
			continue
		}
		att := Scalar(1)
		if pt.Distance > 0 {
			att = Clamp01(1 - dist/pt.Distance)
		}
		if att == 0 {
			continue
		}
		accumulate(pt.Color, math32.Abs(Dot(n, v.Mul(1/dist)))*pt.Intensity*att)
	}

	base := mat.BaseColor
	em := mat.Emissive.MulScalar(mat.EmissiveIntensity)
	return Color{
		R: uint8(clampF32(float32(base.R)*lr+float32(em.R), 0, 255)),
		G: uint8(clampF32(float32(base.G)*lg+float32(em.G), 0, 255)),
		B: uint8(clampF32(float32(base.B)*lb+float32(em.B), 0, 255)),
		A: base.A,
	}
}

func (r *Renderer) depthIndex(w, x, y int) (int, bool) {
	if !r.Depth || r.depthBuf == nil {
		return 0, false
	}
	if x < 0 || y < 0 || x >= w {
		return 0, false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return 0, false
	}
	return idx, true
}

func depthOf(z float32) float32 {
	// NDC z is typically in [-1,1]. Map to [0,1].
	return Clamp01(z*0.5 + 0.5)
}

func (r *Renderer) depthTest(w int, x, y int, z float32, write bool) bool {
	idx, ok := r.depthIndex(w, x, y)
	if !ok {
		return !r.Depth || r.depthBuf == nil
	}
	d := depthOf(z)
	if d >= r.depthBuf[idx] {
		return false
	}
	if write {
		r.depthBuf[idx] = d
	}
	return true
}

func (r *Renderer) depthVisible(w, x, y int, z float32) bool {
	return r.depthTest(w, x, y, z, false)
}

func (r *Renderer) drawLine(t Target, x0, y0, x1, y1 int, c Color, alpha float32) {
	tw, th := t.Size()
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && y0 >= 0 && x0 < tw && y0 < th {
			blendPixel(t, x0, y0, c, alpha)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func clampBox(x0, y0, x1, y1, x2, y2, w, h int) (minX, maxX, minY, maxY int, ok bool) {
	minX, maxX = min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY = min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	return minX, maxX, minY, maxY, minX <= maxX && minY <= maxY
}

func (r *Renderer) fillTriangleFlat(t Target, w, h int, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color, alpha float32, depthWrite bool) {
	minX, maxX, minY, maxY, ok := clampBox(x0, y0, x1, y1, x2, y2, w, h)
	if !ok {
		return
	}

	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	// Accept both windings.
	sign := 1
	if area < 0 {
		sign = -1
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y) * sign
			w1 := edgeFn(x2, y2, x0, y0, x, y) * sign
			w2 := edgeFn(x0, y0, x1, y1, x, y) * sign
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0*sign) * invArea
			a1 := float32(w1*sign) * invArea
			a2 := float32(w2*sign) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z, depthWrite) {
				continue
			}
			blendPixel(t, x, y, c, alpha)
		}
	}
}

func (r *Renderer) fillTriangle(t Target, w, h int, x0, y0 int, z0 float32, c0 Color, x1, y1 int, z1 float32, c1 Color, x2, y2 int, z2 float32, c2 Color) {
	minX, maxX, minY, maxY, ok := clampBox(x0, y0, x1, y1, x2, y2, w, h)
	if !ok {
		return
	}

	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	sign := 1
	if area < 0 {
		sign = -1
	}
	invArea := 1.0 / float32(area)

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y) * sign
			w1 := edgeFn(x2, y2, x0, y0, x, y) * sign
			w2 := edgeFn(x0, y0, x1, y1, x, y) * sign
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0*sign) * invArea
			a1 := float32(w1*sign) * invArea
			a2 := float32(w2*sign) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z, true) {
				continue
			}
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2, 0, 255))
			bb := uint8(clampF32(a0*b0+a1*b1+a2*b2, 0, 255))
			t.SetPixel(x, y, Color{R: rr, G: gg, B: bb, A: 0xFF})
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func smoothstep(e0, e1, x float32) float32 {
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
