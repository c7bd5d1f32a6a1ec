// Package wordmark renders the extruded studio name and its hover and pointer parallax.
package wordmark

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"lukeforge/studio/glyphs"
	"lukeforge/studio/loop"
	"lukeforge/studio/quarkgl"
)

var (
	ErrNoScene    = errors.New("wordmark: host has no scene")
	ErrSceneFull  = errors.New("wordmark: scene is full")
	errNoGeometry = errors.New("wordmark: text produced no geometry")
)

const (
	DefaultText        = "LUKEFORGE"
	DefaultFontTimeout = 4 * time.Second

	textHeight = 0.8
	textDepth  = 0.2
	rasterPx   = 24

	rotationRate = 3
	scaleRate    = 4

	emissiveIdle  = 0.2
	emissiveHover = 0.4
	accentEmissive = 0.5
	tweenDuration = 300 * time.Millisecond
)

var brand = quarkgl.Hex(0x00D4FF)

// Options configures a Wordmark.
type Options struct {
	Text        string
	FontTimeout time.Duration
	// Now drives the hover tween; it defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Text == "" {
		o.Text = DefaultText
	}
	if o.FontTimeout <= 0 {
		o.FontTimeout = DefaultFontTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type part struct {
	id    int
	local quarkgl.Mat4
	// tweened parts follow the hover emissive intensity.
	tweened bool
}

type tween struct {
	from, to float32
	start    time.Time
	active   bool
}

// Wordmark is the hero title. It owns its meshes exclusively.
type Wordmark struct {
	scene  *quarkgl.Scene
	camera *quarkgl.Camera
	opts   Options
	log    *slog.Logger

	parts    []part
	fallback bool
	lo, hi   quarkgl.Vec3

	targetRot  [2]float32 // x, y
	currentRot [2]float32
	roll       float32
	bob        float32

	targetScale  float32
	currentScale float32
	hovered      bool

	emissive float32
	tween    tween

	disposed bool
}

// Create fetches the font from src within opts.FontTimeout and builds the
// wordmark. Any font failure falls back to block geometry; only a missing or full
// scene is an error.
func Create(ctx context.Context, host *loop.Host, src glyphs.Source, opts Options) (*Wordmark, error) {
	opts.defaults()
	if host == nil || host.Scene() == nil {
		return nil, ErrNoScene
	}
	var font *glyphs.Font
	if src != nil {
		fctx, cancel := context.WithTimeout(ctx, opts.FontTimeout)
		f, err := src.Font(fctx)
		cancel()
		if err != nil {
			opts.Logger.Warn("wordmark font unavailable, using fallback", "err", err)
		} else {
			font = f
		}
	}
	return New(host, font, opts)
}

// New builds the wordmark from an already loaded font. A nil font builds the fallback.
func New(host *loop.Host, font *glyphs.Font, opts Options) (*Wordmark, error) {
	opts.defaults()
	if host == nil || host.Scene() == nil {
		return nil, ErrNoScene
	}
	w := &Wordmark{
		scene:        host.Scene(),
		camera:       host.Camera(),
		opts:         opts,
		log:          opts.Logger,
		targetScale:  1,
		currentScale: 1,
		emissive:     emissiveIdle,
	}

	built := false
	if font != nil {
		err := w.buildText(font)
		if err == nil {
			built = true
		} else if errors.Is(err, ErrSceneFull) {
			return nil, err
		} else {
			w.log.Warn("wordmark text geometry failed, using fallback", "err", err)
		}
	}
	if !built {
		if err := w.buildFallback(); err != nil {
			w.Dispose()
			return nil, err
		}
	}
	if err := w.addGlowShell(); err != nil {
		w.Dispose()
		return nil, err
	}
	w.apply()
	return w, nil
}

func letterMaterial(emissive float32) quarkgl.Material {
	return quarkgl.Material{
		BaseColor:         brand,
		Opacity:           0xFF,
		Emissive:          brand,
		EmissiveIntensity: emissive,
	}
}

func (w *Wordmark) buildText(font *glyphs.Font) error {
	mask, err := font.Rasterize(w.opts.Text, rasterPx)
	if err != nil {
		return err
	}
	runs := mask.Runs()
	if len(runs) == 0 {
		return errNoGeometry
	}

	cell := float32(textHeight) / float32(mask.H)
	halfW := float32(mask.W) * cell / 2
	halfH := float32(mask.H) * cell / 2

	var b quarkgl.MeshBuilder
	for _, r := range runs {
		cx := (float32(r.X)+float32(r.Len)/2)*cell - halfW
		cy := halfH - (float32(r.Y)+0.5)*cell
		if err := b.AddBox(quarkgl.V3(cx, cy, 0), quarkgl.V3(float32(r.Len)*cell, cell, textDepth)); err != nil {
			return err
		}
	}
	if err := w.add(b.Mesh(letterMaterial(w.emissive)), quarkgl.Mat4Identity(), true); err != nil {
		return err
	}
	w.lo, w.hi = b.Bounds()
	return nil
}

func (w *Wordmark) buildFallback() error {
	w.fallback = true

	var blocks quarkgl.MeshBuilder
	for _, s := range [...]struct{ width, x float32 }{
		{1.5, -2.5},
		{1.2, -0.8},
		{1.8, 1.2},
	} {
		_ = blocks.AddBox(quarkgl.V3(s.x, 0, 0), quarkgl.V3(s.width, 0.3, textDepth))
	}
	if err := w.add(blocks.Mesh(letterMaterial(w.emissive)), quarkgl.Mat4Identity(), true); err != nil {
		return err
	}

	var accents quarkgl.MeshBuilder
	for _, x := range [...]float32{-3.5, 3.2} {
		_ = accents.AddBox(quarkgl.V3(x, 0, 0), quarkgl.V3(0.15, 0.6, 0.15))
	}
	if err := w.add(accents.Mesh(letterMaterial(accentEmissive)), quarkgl.Mat4Identity(), false); err != nil {
		return err
	}

	w.lo, _ = accents.Bounds()
	_, w.hi = accents.Bounds()
	return nil
}

func (w *Wordmark) addGlowShell() error {
	shell := quarkgl.Sphere(2, 32, 32)
	shell.Material = quarkgl.Material{BaseColor: brand, Opacity: 13, Unlit: true}
	return w.add(shell, quarkgl.Mat4Scale(quarkgl.V3(1.5, 0.8, 1)), false)
}

func (w *Wordmark) add(m quarkgl.Mesh, local quarkgl.Mat4, tweened bool) error {
	id := w.scene.AddMesh(m)
	if id < 0 {
		return ErrSceneFull
	}
	w.parts = append(w.parts, part{id: id, local: local, tweened: tweened})
	return nil
}

// Fallback reports whether the block geometry is in use.
func (w *Wordmark) Fallback() bool { return w.fallback }

// Meshes returns the scene ids the wordmark owns.
func (w *Wordmark) Meshes() []int {
	ids := make([]int, 0, len(w.parts))
	for _, p := range w.parts {
		ids = append(ids, p.id)
	}
	return ids
}

// ReactToPointer sets rotation targets from a pointer position in [-1, 1].
func (w *Wordmark) ReactToPointer(x, y float32) {
	if w.disposed {
		return
	}
	w.targetRot[1] = x * 0.3
	w.targetRot[0] = -y * 0.2
}

// SetHovered sets the scale target and starts a 0.3s ease-out emissive tween.
func (w *Wordmark) SetHovered(hovered bool) {
	if w.disposed || hovered == w.hovered {
		return
	}
	w.hovered = hovered
	w.targetScale = 1
	to := float32(emissiveIdle)
	if hovered {
		w.targetScale = 1.05
		to = emissiveHover
	}
	w.tween = tween{from: w.emissive, to: to, start: w.opts.Now(), active: true}
}

func (w *Wordmark) Hovered() bool { return w.hovered }

// Emissive returns the current letter emissive intensity.
func (w *Wordmark) Emissive() float32 { return w.emissive }

// Rotation returns the current damped rotation (x, y, z).
func (w *Wordmark) Rotation() (x, y, z float32) {
	return w.currentRot[0], w.currentRot[1], w.roll
}

// Scale returns the current damped scale.
func (w *Wordmark) Scale() float32 { return w.currentScale }

// Animate damps rotation and scale toward their targets and applies bob and roll.
func (w *Wordmark) Animate(dt, elapsed float32) {
	if w.disposed {
		return
	}
	for i := range w.currentRot {
		w.currentRot[i] += (w.targetRot[i] - w.currentRot[i]) * rotationRate * dt
	}
	w.currentScale += (w.targetScale - w.currentScale) * scaleRate * dt
	w.bob = math32.Sin(elapsed*0.5) * 0.1
	if !w.hovered {
		w.roll = math32.Sin(elapsed*0.3) * 0.05
	}
	w.stepTween()
	w.apply()
}

func (w *Wordmark) stepTween() {
	if !w.tween.active {
		return
	}
	p := float32(w.opts.Now().Sub(w.tween.start)) / float32(tweenDuration)
	if p >= 1 {
		p = 1
		w.tween.active = false
	}
	if p < 0 {
		p = 0
	}
	eased := 1 - (1-p)*(1-p)*(1-p)
	w.emissive = w.tween.from + (w.tween.to-w.tween.from)*eased
}

func (w *Wordmark) transform() quarkgl.Mat4 {
	return quarkgl.Mat4Compose(
		quarkgl.V3(0, w.bob, 0),
		quarkgl.V3(w.currentRot[0], w.currentRot[1], w.roll),
		quarkgl.V3(w.currentScale, w.currentScale, w.currentScale),
	)
}

func (w *Wordmark) apply() {
	group := w.transform()
	for _, p := range w.parts {
		w.scene.UpdateMeshTransform(p.id, quarkgl.Mat4Mul(group, p.local))
		if !p.tweened {
			continue
		}
		if mat, ok := w.scene.MeshMaterial(p.id); ok && mat.EmissiveIntensity != w.emissive {
			mat.EmissiveIntensity = w.emissive
			w.scene.SetMeshMaterial(p.id, mat)
		}
	}
}

// HitTest reports whether a normalized pointer position in [-1, 1] (+y up) falls
// inside the projected bounds of the letters.
func (w *Wordmark) HitTest(x, y float32) bool {
	if w.disposed || w.camera == nil {
		return false
	}
	cam := *w.camera
	aspect := cam.Aspect
	if aspect == 0 {
		aspect = 1
	}
	vp := quarkgl.Mat4Mul(cam.Projection(aspect), cam.View())
	mvp := quarkgl.Mat4Mul(vp, w.transform())

	minX, minY := float32(math32.MaxFloat32), float32(math32.MaxFloat32)
	maxX, maxY := -minX, -minY
	for i := 0; i < 8; i++ {
		c := w.lo
		if i&1 != 0 {
			c.X = w.hi.X
		}
		if i&2 != 0 {
			c.Y = w.hi.Y
		}
		if i&4 != 0 {
			c.Z = w.hi.Z
		}
		p := quarkgl.Mat4MulV4(mvp, quarkgl.Vec4{X: c.X, Y: c.Y, Z: c.Z, W: 1})
		if p.W <= 0 {
			return false
		}
		nx, ny := p.X/p.W, p.Y/p.W
		minX, maxX = min(minX, nx), max(maxX, nx)
		minY, maxY = min(minY, ny), max(maxY, ny)
	}
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// Dispose removes every owned mesh from the scene. It is idempotent.
func (w *Wordmark) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	for _, p := range w.parts {
		w.scene.RemoveMesh(p.id)
	}
	w.parts = nil
}

var _ loop.Effect = (*Wordmark)(nil)
