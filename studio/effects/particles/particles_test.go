package particles

import (
	"io"
	"log/slog"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lukeforge/hal"
	"lukeforge/studio/capability"
	"lukeforge/studio/loop"
	"lukeforge/studio/quarkgl"
)

func newHost(t *testing.T) *loop.Host {
	t.Helper()
	h := hal.New(32, 32)
	host := loop.New(h.Frames(), loop.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, host.Initialize(h.Display()))
	t.Cleanup(host.Dispose)
	return host
}

func TestCountFollowsProfile(t *testing.T) {
	host := newHost(t)
	for _, tc := range []struct {
		profile capability.Profile
		want    int
	}{
		{capability.Profile{DensityScale: 1}, 2000},
		{capability.Profile{DensityScale: 0.7}, 1400},
		{capability.Profile{DensityScale: 0.3, Mobile: true}, 600},
	} {
		f, err := New(host, 2000, tc.profile, WithSeed(1))
		require.NoError(t, err)
		assert.Equal(t, tc.want, f.Count())
		f.Animate(0.5, 0.5)
		assert.Equal(t, tc.want, f.Count())
		assert.Len(t, f.Set().Positions, tc.want)
		f.Dispose()
	}
}

func TestInitialRadius(t *testing.T) {
	s := Generate(5000, false, WithSeed(7))
	for i, p := range s.Positions {
		r := quarkgl.Len(p)
		require.GreaterOrEqual(t, r, float32(9.999), "particle %d", i)
		require.Less(t, r, float32(20.001), "particle %d", i)
	}
	for _, v := range s.Velocities {
		assert.LessOrEqual(t, math32.Abs(v.X), float32(0.01))
		assert.LessOrEqual(t, math32.Abs(v.Y), float32(0.01))
		assert.LessOrEqual(t, math32.Abs(v.Z), float32(0.01))
	}
	for _, sz := range s.Sizes {
		assert.GreaterOrEqual(t, sz, float32(0.5))
		assert.Less(t, sz, float32(2.5))
	}
}

func TestDirectionsAreUniform(t *testing.T) {
	const n = 20000
	s := Generate(n, false, WithSeed(42))
	var bins [4]int
	for _, p := range s.Positions {
		cosPhi := p.Z / quarkgl.Len(p)
		b := int((cosPhi + 1) / 2 * 4)
		if b == 4 {
			b = 3
		}
		bins[b]++
	}
	for i, c := range bins {
		assert.InDelta(t, n/4, c, n*0.03, "bin %d", i)
	}
}

func TestColorMix(t *testing.T) {
	const n = 20000
	s := Generate(n, false, WithSeed(3))
	var white, brandCount int
	for _, c := range s.Colors {
		switch c {
		case quarkgl.Hex(0xFFFFFF):
			white++
		case quarkgl.Hex(0x00D4FF):
			brandCount++
		}
	}
	assert.InDelta(t, 0.7, float64(white)/n, 0.03)
	assert.InDelta(t, 0.1, float64(brandCount)/n, 0.03)
}

func TestPositionsStayInsideBoundary(t *testing.T) {
	host := newHost(t)
	f, err := New(host, 1000, capability.Profile{DensityScale: 1}, WithSeed(9))
	require.NoError(t, err)

	var elapsed float32
	for i := 0; i < 500; i++ {
		f.Animate(1, elapsed)
		elapsed++
		for _, p := range f.Set().Positions {
			require.LessOrEqual(t, quarkgl.Len(p), float32(20.001))
		}
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := Generate(100, false, WithSeed(5))
	b := Generate(100, false, WithSeed(5))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Positions, Generate(100, false, WithSeed(6)).Positions)
}

func TestBasicMode(t *testing.T) {
	host := newHost(t)
	f, err := New(host, 100, capability.Profile{DensityScale: 1, Basic: true}, WithSeed(1))
	require.NoError(t, err)
	assert.True(t, f.Basic())
	assert.Nil(t, f.Set().Velocities)
	assert.InDelta(t, 0.4, f.Opacity(), 1e-6)

	before := append([]quarkgl.Vec3(nil), f.Set().Positions...)
	f.Animate(1, 1)
	assert.Equal(t, before, f.Set().Positions)
	_, y := f.Rotation()
	assert.InDelta(t, 0.08, y, 1e-6)
}

func TestAnimateDoesNotAllocate(t *testing.T) {
	host := newHost(t)
	f, err := New(host, 500, capability.Profile{DensityScale: 1}, WithSeed(1))
	require.NoError(t, err)
	allocs := testing.AllocsPerRun(50, func() { f.Animate(0.016, 1) })
	assert.Zero(t, allocs)
}

func TestRotation(t *testing.T) {
	host := newHost(t)
	f, err := New(host, 10, capability.Profile{DensityScale: 1}, WithSeed(1))
	require.NoError(t, err)
	f.Animate(0.5, 2)
	x, y := f.Rotation()
	assert.InDelta(t, 0.04, y, 1e-6)
	assert.InDelta(t, math32.Sin(0.3)*0.15, x, 1e-6)
}

func TestOpacityAndDispose(t *testing.T) {
	host := newHost(t)
	f, err := New(host, 10, capability.Profile{DensityScale: 1}, WithSeed(1))
	require.NoError(t, err)
	assert.InDelta(t, 0.6, f.Opacity(), 1e-6)
	f.SetOpacity(2)
	assert.Equal(t, float32(1), f.Opacity())
	f.SetOpacity(-1)
	assert.Zero(t, f.Opacity())

	n := host.Scene().Len()
	f.Dispose()
	f.Dispose()
	assert.Equal(t, n-1, host.Scene().Len())
}

func TestSceneFull(t *testing.T) {
	h := hal.New(8, 8)
	host := loop.New(h.Frames(), loop.Options{MaxPointClouds: 1, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, host.Initialize(h.Display()))
	defer host.Dispose()

	_, err := New(host, 10, capability.Profile{DensityScale: 1})
	require.NoError(t, err)
	_, err = New(host, 10, capability.Profile{DensityScale: 1})
	assert.ErrorIs(t, err, ErrSceneFull)
}
