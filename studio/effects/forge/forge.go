// Package forge is the small rotating torus knot beside the wordmark.
package forge

import (
	"errors"

	"github.com/chewxy/math32"

	"lukeforge/studio/loop"
	"lukeforge/studio/quarkgl"
)

var (
	ErrNoScene   = errors.New("forge: host has no scene")
	ErrSceneFull = errors.New("forge: scene is full")
)

var (
	home  = quarkgl.V3(3, -1, -2)
	scale = quarkgl.V3(0.6, 0.6, 0.6)
)

// Knot is the ornament effect.
type Knot struct {
	scene    *quarkgl.Scene
	id       int
	rot      quarkgl.Vec3
	pos      quarkgl.Vec3
	disposed bool
}

// New adds the knot to the host scene.
func New(host *loop.Host) (*Knot, error) {
	if host == nil || host.Scene() == nil {
		return nil, ErrNoScene
	}
	m := quarkgl.TorusKnot(0.8, 0.3, 64, 16, 2, 3)
	m.Material = quarkgl.Material{
		BaseColor:         quarkgl.Hex(0x00D4FF),
		Opacity:           0xFF,
		Emissive:          quarkgl.Hex(0x00D4FF),
		EmissiveIntensity: 0.3,
	}
	m.Transform = quarkgl.Mat4Compose(home, quarkgl.Vec3{}, scale)
	k := &Knot{scene: host.Scene(), pos: home}
	k.id = k.scene.AddMesh(m)
	if k.id < 0 {
		return nil, ErrSceneFull
	}
	return k, nil
}

// Animate sets rotation and bob from elapsed time.
func (k *Knot) Animate(_, elapsed float32) {
	if k.disposed {
		return
	}
	k.rot = quarkgl.V3(elapsed*0.2, elapsed*0.3, 0)
	k.pos.Y = home.Y + math32.Sin(elapsed*0.5)*0.2
	k.scene.UpdateMeshTransform(k.id, quarkgl.Mat4Compose(k.pos, k.rot, scale))
}

// Position returns the current position.
func (k *Knot) Position() quarkgl.Vec3 { return k.pos }

// Rotation returns the current rotation.
func (k *Knot) Rotation() quarkgl.Vec3 { return k.rot }

// Dispose removes the knot. It is idempotent.
func (k *Knot) Dispose() {
	if k.disposed {
		return
	}
	k.disposed = true
	k.scene.RemoveMesh(k.id)
}

var _ loop.Effect = (*Knot)(nil)
