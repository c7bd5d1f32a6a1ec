package quarkgl

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestMat4MulIdentity(t *testing.T) {
	a := Mat4Identity()
	b := Mat4Translate(V3(1, 2, 3))
	got := Mat4Mul(a, b)
	if got != b {
		t.Fatalf("identity*a mismatch")
	}
	got2 := Mat4Mul(b, a)
	if got2 != b {
		t.Fatalf("a*identity mismatch")
	}
}

func TestLookAtNotIdentity(t *testing.T) {
	m := Mat4LookAt(V3(0, 0, 3), V3(0, 0, 0), V3(0, 1, 0))
	if m == Mat4Identity() {
		t.Fatalf("lookAt unexpectedly identity")
	}
}

func TestLookAtMovesTargetOntoNegativeZ(t *testing.T) {
	m := Mat4LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0))
	p := TransformPoint(m, V3(0, 0, 0))
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -5) {
		t.Fatalf("origin in view space = %+v, want (0,0,-5)", p)
	}
}

func TestComposeAppliesScaleThenRotateThenTranslate(t *testing.T) {
	m := Mat4Compose(V3(1, 0, 0), V3(0, 0, math32.Pi/2), V3(2, 2, 2))
	p := TransformPoint(m, V3(1, 0, 0))
	// Scale to (2,0,0), rotate a quarter turn about Z to (0,2,0), then translate.
	if !near(p.X, 1) || !near(p.Y, 2) || !near(p.Z, 0) {
		t.Fatalf("composed point = %+v, want (1,2,0)", p)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	proj := Mat4Perspective(Deg(75), 1, 0.1, 1000)
	for _, tc := range []struct {
		z    Scalar
		want Scalar
	}{
		{-0.1, -1},
		{-1000, 1},
	} {
		c := Mat4MulV4(proj, Vec4{Z: tc.z, W: 1})
		if got := c.Z / c.W; math32.Abs(got-tc.want) > 1e-3 {
			t.Fatalf("ndc z for %v = %v, want %v", tc.z, got, tc.want)
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := Normalize(Vec3{}); got != (Vec3{}) {
		t.Fatalf("Normalize(0) = %+v", got)
	}
}

func near(a, b Scalar) bool { return math32.Abs(a-b) < 1e-4 }
