package quarkgl

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrMeshTooLarge is returned when a mesh would exceed 16-bit indices.
var ErrMeshTooLarge = errors.New("quarkgl: mesh exceeds 65535 vertices")

const maxVertices = 1 << 16

// MeshBuilder accumulates geometry for a single mesh.
type MeshBuilder struct {
	Vertices []Vertex
	Indices  []uint16
}

// AddBox appends an axis-aligned box centered at c with full extents size.
func (b *MeshBuilder) AddBox(c, size Vec3) error {
	if len(b.Vertices)+8 > maxVertices {
		return ErrMeshTooLarge
	}
	hx, hy, hz := size.X/2, size.Y/2, size.Z/2
	base := uint16(len(b.Vertices))
	corners := [8]Vec3{
		{c.X - hx, c.Y - hy, c.Z - hz},
		{c.X + hx, c.Y - hy, c.Z - hz},
		{c.X + hx, c.Y + hy, c.Z - hz},
		{c.X - hx, c.Y + hy, c.Z - hz},
		{c.X - hx, c.Y - hy, c.Z + hz},
		{c.X + hx, c.Y - hy, c.Z + hz},
		{c.X + hx, c.Y + hy, c.Z + hz},
		{c.X - hx, c.Y + hy, c.Z + hz},
	}
	for _, p := range corners {
		b.Vertices = append(b.Vertices, Vertex{Pos: p})
	}
	faces := [...]uint16{
		4, 5, 6, 4, 6, 7, // front
		1, 0, 3, 1, 3, 2, // back
		0, 4, 7, 0, 7, 3, // left
		5, 1, 2, 5, 2, 6, // right
		7, 6, 2, 7, 2, 3, // top
		0, 1, 5, 0, 5, 4, // bottom
	}
	for _, f := range faces {
		b.Indices = append(b.Indices, base+f)
	}
	return nil
}

// AddTriangle appends an unindexed triangle.
func (b *MeshBuilder) AddTriangle(p0, p1, p2 Vec3) error {
	if len(b.Vertices)+3 > maxVertices {
		return ErrMeshTooLarge
	}
	base := uint16(len(b.Vertices))
	b.Vertices = append(b.Vertices, Vertex{Pos: p0}, Vertex{Pos: p1}, Vertex{Pos: p2})
	b.Indices = append(b.Indices, base, base+1, base+2)
	return nil
}

// Mesh returns a mesh over the builder's buffers with the given material.
func (b *MeshBuilder) Mesh(mat Material) Mesh {
	return Mesh{Vertices: b.Vertices, Indices: b.Indices, Material: mat}
}

// Bounds returns the axis-aligned bounds of the accumulated vertices.
func (b *MeshBuilder) Bounds() (lo, hi Vec3) {
	if len(b.Vertices) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = b.Vertices[0].Pos, b.Vertices[0].Pos
	for _, v := range b.Vertices[1:] {
		lo = V3(math32.Min(lo.X, v.Pos.X), math32.Min(lo.Y, v.Pos.Y), math32.Min(lo.Z, v.Pos.Z))
		hi = V3(math32.Max(hi.X, v.Pos.X), math32.Max(hi.Y, v.Pos.Y), math32.Max(hi.Z, v.Pos.Z))
	}
	return lo, hi
}

// Translate shifts every vertex by d.
func (b *MeshBuilder) Translate(d Vec3) {
	for i := range b.Vertices {
		b.Vertices[i].Pos = b.Vertices[i].Pos.Add(d)
	}
}

// Box returns a single box mesh centered at the origin.
func Box(w, h, d Scalar) Mesh {
	var b MeshBuilder
	_ = b.AddBox(Vec3{}, V3(w, h, d))
	return b.Mesh(Material{})
}

// Torus returns a torus around the Y axis.
func Torus(major, minor Scalar, segU, segV int) Mesh {
	if segU < 3 {
		segU = 3
	}
	if segV < 3 {
		segV = 3
	}

	verts := make([]Vertex, 0, segU*segV)
	indices := make([]uint16, 0, segU*segV*6)

	for u := 0; u < segU; u++ {
		theta := 2 * math32.Pi * float32(u) / float32(segU)
		ct, st := math32.Cos(theta), math32.Sin(theta)
		for v := 0; v < segV; v++ {
			phi := 2 * math32.Pi * float32(v) / float32(segV)
			r := major + minor*math32.Cos(phi)
			verts = append(verts, Vertex{Pos: V3(r*ct, minor*math32.Sin(phi), r*st)})
		}
	}

	idx := func(u, v int) uint16 {
		return uint16((u%segU)*segV + v%segV)
	}
	for u := 0; u < segU; u++ {
		for v := 0; v < segV; v++ {
			i0, i1, i2, i3 := idx(u, v), idx(u+1, v), idx(u+1, v+1), idx(u, v+1)
			indices = append(indices, i0, i1, i2, i0, i2, i3)
		}
	}
	return Mesh{Vertices: verts, Indices: indices}
}

// TorusKnot returns a (p,q) torus knot tube.
func TorusKnot(radius, tube Scalar, tubular, radial, p, q int) Mesh {
	if tubular < 3 {
		tubular = 3
	}
	if radial < 3 {
		radial = 3
	}
	if p == 0 {
		p = 2
	}
	if q == 0 {
		q = 3
	}
	curve := func(u Scalar) Vec3 {
		qu := float32(q) / float32(p) * u
		cs := math32.Cos(qu)
		return V3(
			radius*(2+cs)*0.5*math32.Cos(u),
			radius*(2+cs)*0.5*math32.Sin(u),
			radius*math32.Sin(qu)*0.5,
		)
	}

	verts := make([]Vertex, 0, (tubular+1)*(radial+1))
	for i := 0; i <= tubular; i++ {
		u := float32(i) / float32(tubular) * float32(p) * 2 * math32.Pi
		p1 := curve(u)
		p2 := curve(u + 0.01)
		tangent := p2.Sub(p1)
		n := p2.Add(p1)
		bi := Normalize(Cross(tangent, n))
		n = Normalize(Cross(bi, tangent))
		for j := 0; j <= radial; j++ {
			v := float32(j) / float32(radial) * 2 * math32.Pi
			cx := -tube * math32.Cos(v)
			cy := tube * math32.Sin(v)
			verts = append(verts, Vertex{Pos: p1.Add(n.Mul(cx)).Add(bi.Mul(cy))})
		}
	}

	indices := make([]uint16, 0, tubular*radial*6)
	for j := 1; j <= tubular; j++ {
		for i := 1; i <= radial; i++ {
			a := uint16((radial+1)*(j-1) + (i - 1))
			b := uint16((radial+1)*j + (i - 1))
			c := uint16((radial+1)*j + i)
			d := uint16((radial+1)*(j-1) + i)
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return Mesh{Vertices: verts, Indices: indices}
}

// Icosahedron returns a geodesic sphere: an icosahedron whose faces are split
// into (detail+1)^2 triangles and projected onto the radius.
func Icosahedron(radius Scalar, detail int) Mesh {
	if detail < 0 {
		detail = 0
	}
	t := (1 + math32.Sqrt(5)) / 2
	base := [12]Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	n := detail + 1
	var b MeshBuilder
	onSphere := func(v Vec3) Vec3 { return Normalize(v).Mul(radius) }
	for _, f := range faces {
		a, bb, c := base[f[0]], base[f[1]], base[f[2]]
		// Grid point (i, j) on the face, i along a->b, j along a->c.
		at := func(i, j int) Vec3 {
			u := float32(i) / float32(n)
			v := float32(j) / float32(n)
			return onSphere(a.Add(bb.Sub(a).Mul(u)).Add(c.Sub(a).Mul(v)))
		}
		for i := 0; i < n; i++ {
			for j := 0; i+j < n; j++ {
				_ = b.AddTriangle(at(i, j), at(i+1, j), at(i, j+1))
				if i+j+1 < n {
					_ = b.AddTriangle(at(i+1, j), at(i+1, j+1), at(i, j+1))
				}
			}
		}
	}
	return b.Mesh(Material{})
}

// Sphere returns a UV sphere.
func Sphere(radius Scalar, widthSegments, heightSegments int) Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	verts := make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		for x := 0; x <= widthSegments; x++ {
			u := float32(x) / float32(widthSegments)
			verts = append(verts, Vertex{Pos: V3(
				-radius*math32.Cos(u*2*math32.Pi)*math32.Sin(v*math32.Pi),
				radius*math32.Cos(v*math32.Pi),
				radius*math32.Sin(u*2*math32.Pi)*math32.Sin(v*math32.Pi),
			)})
		}
	}
	row := widthSegments + 1
	indices := make([]uint16, 0, widthSegments*heightSegments*6)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint16(y*row + x + 1)
			b := uint16(y*row + x)
			c := uint16((y+1)*row + x)
			d := uint16((y+1)*row + x + 1)
			if y != 0 {
				indices = append(indices, a, b, d)
			}
			if y != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return Mesh{Vertices: verts, Indices: indices}
}
