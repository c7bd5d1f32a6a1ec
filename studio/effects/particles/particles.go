// Package particles implements the ambient star field around the hero.
package particles

import (
	"errors"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"lukeforge/studio/capability"
	"lukeforge/studio/loop"
	"lukeforge/studio/quarkgl"
)

var (
	ErrNoScene   = errors.New("particles: host has no scene")
	ErrSceneFull = errors.New("particles: scene is full")
)

const (
	minRadius   = 10
	maxRadius   = 20
	resetRadius = 10

	velocitySpread = 0.02
	velocityScale  = 10

	minSize = 0.5
	maxSize = 2.5

	spinRate   = 0.08
	tiltRate   = 0.15
	tiltAmount = 0.15

	opacityFull  = 0.6
	opacityBasic = 0.4
	sizeBasic    = 0.05
	attenuation  = 300
)

var (
	brand = quarkgl.Hex(0x00D4FF)
	white = quarkgl.Hex(0xFFFFFF)
)

// Set is the particle data. The slices are parallel and never resized.
// Velocities, Colors and Sizes are nil in basic mode.
type Set struct {
	Positions  []quarkgl.Vec3
	Velocities []quarkgl.Vec3
	Colors     []quarkgl.Color
	Sizes      []float32
}

// Len returns the particle count.
func (s Set) Len() int { return len(s.Positions) }

type config struct {
	rng *rand.Rand
}

// Option configures generation.
type Option func(*config)

// WithSeed makes generation deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Generate samples count particles uniformly on directions with radius in [10, 20).
// It touches no shared state and may run off the render goroutine.
func Generate(count int, basic bool, opts ...Option) Set {
	if count < 0 {
		count = 0
	}
	c := newConfig(opts)
	rng := c.rng
	rnd := func() float32 { return rng.Float32() }

	s := Set{Positions: make([]quarkgl.Vec3, count)}
	if !basic {
		s.Velocities = make([]quarkgl.Vec3, count)
		s.Colors = make([]quarkgl.Color, count)
		s.Sizes = make([]float32, count)
	}
	for i := 0; i < count; i++ {
		r := minRadius + rnd()*(maxRadius-minRadius)
		theta := rnd() * 2 * math32.Pi
		phi := math32.Acos(2*rnd() - 1)
		s.Positions[i] = quarkgl.V3(
			r*math32.Sin(phi)*math32.Cos(theta),
			r*math32.Sin(phi)*math32.Sin(theta),
			r*math32.Cos(phi),
		)
		if basic {
			continue
		}
		s.Velocities[i] = quarkgl.V3(
			(rnd()-0.5)*velocitySpread,
			(rnd()-0.5)*velocitySpread,
			(rnd()-0.5)*velocitySpread,
		)
		switch v := rnd(); {
		case v < 0.7:
			s.Colors[i] = white
		case v < 0.9:
			s.Colors[i] = quarkgl.Lerp(brand, white, rnd())
		default:
			s.Colors[i] = brand
		}
		s.Sizes[i] = minSize + rnd()*(maxSize-minSize)
	}
	return s
}

// Field is the particle effect. Its count is fixed at construction.
type Field struct {
	scene *quarkgl.Scene
	set   Set
	cloud quarkgl.PointCloud
	id    int
	basic bool

	rotX, rotY float32
	disposed   bool
}

// New generates profile.ParticleCount(requested) particles and adds them to the host scene.
func New(host *loop.Host, requested int, profile capability.Profile, opts ...Option) (*Field, error) {
	return Attach(host, Generate(profile.ParticleCount(requested), profile.Basic, opts...), profile.Basic)
}

// Attach adds a pre-generated set to the host scene. The field takes ownership of set.
func Attach(host *loop.Host, set Set, basic bool) (*Field, error) {
	if host == nil || host.Scene() == nil {
		return nil, ErrNoScene
	}
	f := &Field{scene: host.Scene(), set: set, basic: basic}
	f.cloud = quarkgl.PointCloud{
		Positions:   set.Positions,
		Colors:      set.Colors,
		Sizes:       set.Sizes,
		BaseColor:   brand,
		BaseSize:    1,
		Opacity:     opacityFull,
		Attenuation: attenuation,
		Pulse:       true,
		Transform:   quarkgl.Mat4Identity(),
	}
	if basic {
		f.cloud.Colors = nil
		f.cloud.Sizes = nil
		f.cloud.BaseSize = sizeBasic
		f.cloud.Opacity = opacityBasic
		f.cloud.Attenuation = 0
		f.cloud.Pulse = false
	}
	f.id = f.scene.AddPoints(&f.cloud)
	if f.id < 0 {
		return nil, ErrSceneFull
	}
	return f, nil
}

// Count returns the number of particles.
func (f *Field) Count() int { return f.set.Len() }

// Set exposes the particle data for reading.
func (f *Field) Set() Set { return f.set }

// Basic reports whether the simplified representation is in use.
func (f *Field) Basic() bool { return f.basic }

// Opacity returns the current material opacity.
func (f *Field) Opacity() float32 { return f.cloud.Opacity }

// Rotation returns the field rotation (x, y).
func (f *Field) Rotation() (x, y float32) { return f.rotX, f.rotY }

// Animate spins the field and advances every particle along its velocity.
// Particles leaving radius 20 are reflected to radius 10 on the opposite side.
func (f *Field) Animate(dt, elapsed float32) {
	if f.disposed {
		return
	}
	f.rotY += dt * spinRate
	f.rotX = math32.Sin(elapsed*tiltRate) * tiltAmount
	f.cloud.Transform = quarkgl.Mat4RotateXYZ(quarkgl.V3(f.rotX, f.rotY, 0))
	f.cloud.Time = elapsed

	if f.set.Velocities == nil {
		return
	}
	step := dt * velocityScale
	for i := range f.set.Positions {
		p := f.set.Positions[i].Add(f.set.Velocities[i].Mul(step))
		if d := quarkgl.Len(p); d > maxRadius {
			p = p.Mul(-resetRadius / d)
		}
		f.set.Positions[i] = p
	}
}

// SetOpacity sets the material opacity, clamped to [0, 1].
func (f *Field) SetOpacity(v float32) {
	f.cloud.Opacity = quarkgl.Clamp01(v)
}

// Dispose removes the field from the scene. It is idempotent.
func (f *Field) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.scene.RemovePoints(f.id)
}

var _ loop.Effect = (*Field)(nil)
