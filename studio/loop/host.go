// Package loop owns the render loop: one surface, one camera, one per-frame clock
// fanned out to registered callbacks.
package loop

import (
	"log/slog"
	"runtime/debug"
	"time"

	"lukeforge/hal"
	"lukeforge/studio/quarkgl"
)

// FrameFunc is called once per tick with seconds since the previous tick and
// total running seconds.
type FrameFunc func(dt, elapsed float32)

// Effect is a visual unit driven by the loop.
type Effect interface {
	Animate(dt, elapsed float32)
	Dispose()
}

// Overlay draws 2D content over the 3D frame, after the scene is rendered.
type Overlay interface {
	DrawOverlay(t quarkgl.Target)
}

// State is the host lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateStopped
	StateRunning
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Options configures a Host.
type Options struct {
	// Now stamps Start; it should be the clock the runner stamps frames with.
	Now     func() time.Time
	Logger  *slog.Logger
	OnError func(err error)

	ClearColor     quarkgl.Color
	MaxMeshes      int
	MaxPointClouds int
}

// Stats counts loop activity.
type Stats struct {
	Ticks     uint64
	Renders   uint64
	Recovered uint64
}

const (
	cameraFOV  = 75
	cameraNear = 0.1
	cameraFar  = 1000
	cameraZ    = 5
)

// Host runs the shared per-frame tick. It is not safe for concurrent use; every
// method and every callback runs on the runner goroutine.
type Host struct {
	frames hal.Frames
	opts   Options
	log    *slog.Logger

	state    State
	fb       hal.Framebuffer
	renderer *quarkgl.Renderer
	scene    *quarkgl.Scene
	target   quarkgl.RGB565Target
	width    int
	height   int

	callbacks []FrameFunc
	overlays  []Overlay

	tickFn  func(time.Time)
	frameID hal.FrameID
	last    time.Time
	elapsed float32
	stats   Stats
}

// New returns an uninitialized host that schedules ticks on frames.
func New(frames hal.Frames, opts Options) *Host {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxMeshes <= 0 {
		opts.MaxMeshes = 32
	}
	if opts.MaxPointClouds <= 0 {
		opts.MaxPointClouds = 4
	}
	h := &Host{frames: frames, opts: opts, log: opts.Logger}
	h.tickFn = h.tick
	return h
}

// Initialize allocates the renderer and scene for the container's framebuffer.
func (h *Host) Initialize(container hal.Display) error {
	switch h.state {
	case StateUninitialized:
	case StateDisposed:
		return ErrDisposed
	default:
		return ErrAlreadyInitialized
	}
	if h.frames == nil || container == nil {
		return &SurfaceInitError{Err: ErrNoFramebuffer}
	}
	fb := container.Framebuffer()
	if fb == nil {
		return &SurfaceInitError{Err: ErrNoFramebuffer}
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return &SurfaceInitError{Err: ErrUnsupportedFormat}
	}
	w, hgt := fb.Width(), fb.Height()
	if w <= 0 || hgt <= 0 || len(fb.Buffer()) < hgt*fb.StrideBytes() {
		return &SurfaceInitError{Err: ErrZeroSize}
	}

	h.fb = fb
	h.width, h.height = w, hgt
	h.renderer = quarkgl.NewRenderer(w, hgt, true)
	h.renderer.ClearColor = h.opts.ClearColor
	h.scene = quarkgl.CreateScene(h.opts.MaxMeshes, h.opts.MaxPointClouds)
	h.scene.Camera = quarkgl.Camera{
		Type:     quarkgl.CameraPerspective,
		Position: quarkgl.V3(0, 0, cameraZ),
		Target:   quarkgl.V3(0, 0, 0),
		Up:       quarkgl.V3(0, 1, 0),
		FOVYRad:  quarkgl.Deg(cameraFOV),
		Near:     cameraNear,
		Far:      cameraFar,
		Aspect:   float32(w) / float32(hgt),
	}
	h.scene.Lighting = DefaultLighting()
	h.scene.Fog = quarkgl.Fog{Enabled: true, Color: quarkgl.Hex(0x000000), Near: 10, Far: 50}
	h.state = StateStopped
	h.log.Debug("render host initialized", "width", w, "height", hgt)
	return nil
}

// DefaultLighting is the fixed hero light rig.
func DefaultLighting() quarkgl.Lighting {
	return quarkgl.Lighting{
		Ambient:          quarkgl.Hex(0xFFFFFF),
		AmbientIntensity: 0.4,
		Directional: []quarkgl.DirectionalLight{
			{Color: quarkgl.Hex(0x0EA5E9), Intensity: 1.5, Position: quarkgl.V3(5, 5, 5)},
		},
		Points: []quarkgl.PointLight{
			{Color: quarkgl.Hex(0x0EA5E9), Intensity: 2, Position: quarkgl.V3(-3, 2, 3), Distance: 20},
			{Color: quarkgl.Hex(0xF0F9FF), Intensity: 0.5, Position: quarkgl.V3(0, -2, 2), Distance: 15},
		},
	}
}

// OnFrame appends fn to the per-tick callbacks. Callbacks live for the session.
func (h *Host) OnFrame(fn FrameFunc) {
	if fn == nil || h.state == StateDisposed {
		return
	}
	h.callbacks = append(h.callbacks, fn)
}

// Register subscribes an effect's Animate. Disposing the effect stays the caller's job.
func (h *Host) Register(e Effect) {
	if e == nil {
		return
	}
	h.OnFrame(e.Animate)
}

// Start begins ticking. It is a no-op unless the host is stopped.
func (h *Host) Start() {
	if h.state != StateStopped {
		return
	}
	h.state = StateRunning
	h.last = h.opts.Now()
	h.frameID = h.frames.RequestFrame(h.tickFn)
}

// Stop halts ticking. It is a no-op unless the host is running.
func (h *Host) Stop() {
	if h.state != StateRunning {
		return
	}
	h.state = StateStopped
	h.frames.CancelFrame(h.frameID)
	h.frameID = 0
}

func (h *Host) tick(now time.Time) {
	h.frameID = 0
	if h.state != StateRunning {
		return
	}
	h.frameID = h.frames.RequestFrame(h.tickFn)

	dt := float32(now.Sub(h.last).Seconds())
	if dt < 0 {
		dt = 0
	}
	h.last = now
	h.elapsed += dt
	h.stats.Ticks++

	for i, fn := range h.callbacks {
		h.invoke(i, fn, dt, h.elapsed)
	}

	// A callback may have stopped or disposed the host.
	if h.state != StateRunning {
		return
	}
	h.render()
}

func (h *Host) invoke(i int, fn FrameFunc, dt, elapsed float32) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		h.stats.Recovered++
		err := &CallbackPanicError{Index: i, Value: r, Stack: debug.Stack()}
		h.log.Error("frame callback panicked", "callback", i, "panic", r)
		if h.opts.OnError != nil {
			h.opts.OnError(err)
		}
	}()
	fn(dt, elapsed)
}

func (h *Host) render() {
	fb := h.fb
	h.target = quarkgl.RGB565Target{
		Buf:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      fb.Width(),
		H:      fb.Height(),
	}
	h.renderer.Render(&h.target, h.scene)
	for _, o := range h.overlays {
		o.DrawOverlay(&h.target)
	}
	if err := fb.Present(); err != nil {
		h.log.Warn("present failed", "err", err)
	}
	h.stats.Renders++
}

// Resize updates the camera aspect and depth buffer. It is safe while stopped and
// a no-op before Initialize or after Dispose.
func (h *Host) Resize(w, hgt int) {
	if h.state != StateStopped && h.state != StateRunning {
		return
	}
	if w <= 0 || hgt <= 0 {
		return
	}
	h.width, h.height = w, hgt
	h.scene.Camera.Aspect = float32(w) / float32(hgt)
	h.renderer.EnableDepth(true, w, hgt)
}

// Dispose stops the loop, releases the renderer and scene, and blanks the surface.
// Registered effects are not disposed. Dispose is idempotent.
func (h *Host) Dispose() {
	if h.state == StateDisposed {
		return
	}
	h.Stop()
	if h.renderer != nil {
		h.renderer.Release()
		h.renderer = nil
	}
	if h.scene != nil {
		h.scene.Clear()
		h.scene = nil
	}
	if h.fb != nil {
		h.fb.ClearRGB(0, 0, 0)
		_ = h.fb.Present()
		h.fb = nil
	}
	h.target = quarkgl.RGB565Target{}
	h.callbacks = nil
	h.overlays = nil
	h.state = StateDisposed
	h.log.Debug("render host disposed", "ticks", h.stats.Ticks, "renders", h.stats.Renders)
}

// Scene returns the host scene, or nil before Initialize and after Dispose.
func (h *Host) Scene() *quarkgl.Scene { return h.scene }

// Camera returns the scene camera, or nil when there is no scene.
func (h *Host) Camera() *quarkgl.Camera {
	if h.scene == nil {
		return nil
	}
	return &h.scene.Camera
}

// AddOverlay appends a 2D layer drawn after the scene.
func (h *Host) AddOverlay(o Overlay) {
	if o == nil || h.state == StateDisposed {
		return
	}
	h.overlays = append(h.overlays, o)
}

// RemoveOverlay removes o if present.
func (h *Host) RemoveOverlay(o Overlay) {
	for i, cur := range h.overlays {
		if cur == o {
			h.overlays = append(h.overlays[:i], h.overlays[i+1:]...)
			return
		}
	}
}

// Size returns the last known surface size.
func (h *Host) Size() (w, hgt int) { return h.width, h.height }

func (h *Host) State() State         { return h.state }
func (h *Host) Stats() Stats         { return h.stats }
func (h *Host) Elapsed() float32     { return h.elapsed }
func (h *Host) Logger() *slog.Logger { return h.log }

// LiveResources counts allocations the host owns directly: renderer buffers,
// the scene, the attached surface and a pending frame request.
func (h *Host) LiveResources() int {
	n := 0
	if h.renderer.Allocated() {
		n++
	}
	if h.scene != nil {
		n++
	}
	if h.fb != nil {
		n++
	}
	if h.frameID != 0 {
		n++
	}
	return n
}
