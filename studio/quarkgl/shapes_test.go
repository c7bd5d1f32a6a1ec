package quarkgl

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxHasTwelveTriangles(t *testing.T) {
	m := Box(1.5, 0.3, 0.2)
	require.Len(t, m.Vertices, 8)
	assert.Equal(t, 12, m.Triangles())
}

func TestMeshBuilderBounds(t *testing.T) {
	var b MeshBuilder
	require.NoError(t, b.AddBox(V3(-2.5, 0, 0), V3(1.5, 0.3, 0.2)))
	require.NoError(t, b.AddBox(V3(1.2, 0, 0), V3(1.8, 0.3, 0.2)))

	lo, hi := b.Bounds()
	assert.InDelta(t, -3.25, lo.X, 1e-5)
	assert.InDelta(t, 2.1, hi.X, 1e-5)
	assert.InDelta(t, 0.15, hi.Y, 1e-5)

	b.Translate(V3(1, 0, 0))
	lo, _ = b.Bounds()
	assert.InDelta(t, -2.25, lo.X, 1e-5)
}

func TestMeshBuilderRejectsOverflow(t *testing.T) {
	var b MeshBuilder
	b.Vertices = make([]Vertex, maxVertices-4)
	assert.ErrorIs(t, b.AddBox(Vec3{}, V3(1, 1, 1)), ErrMeshTooLarge)
	assert.Len(t, b.Vertices, maxVertices-4)
}

func TestIcosahedronDetail(t *testing.T) {
	for _, tc := range []struct {
		detail int
		tris   int
	}{
		{0, 20},
		{1, 80},
		{2, 180},
	} {
		m := Icosahedron(1.5, tc.detail)
		assert.Equal(t, tc.tris, m.Triangles(), "detail %d", tc.detail)
		for _, v := range m.Vertices {
			require.InDelta(t, 1.5, Len(v.Pos), 1e-4)
		}
	}
}

func TestTorusKnotShape(t *testing.T) {
	m := TorusKnot(0.8, 0.3, 64, 16, 2, 3)
	assert.Len(t, m.Vertices, 65*17)
	assert.Equal(t, 64*16*2, m.Triangles())
	for _, idx := range m.Indices {
		require.Less(t, int(idx), len(m.Vertices))
	}
}

func TestTorusAndSphere(t *testing.T) {
	torus := Torus(1, 0.4, 24, 12)
	assert.Equal(t, 24*12*2, torus.Triangles())

	s := Sphere(2, 16, 12)
	assert.Equal(t, 16*(12*2-2), s.Triangles())
	for _, v := range s.Vertices {
		require.InDelta(t, 2, Len(v.Pos), 1e-4)
	}
	assert.InDelta(t, 2, math32.Abs(s.Vertices[0].Pos.Y), 1e-5)
}
