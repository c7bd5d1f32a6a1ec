package app

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"lukeforge/hal"
	"lukeforge/studio/loop"
	"lukeforge/studio/quarkgl"
)

// Project is a portfolio entry that can be previewed.
type Project struct {
	ID    string
	Title string
	Color uint32
}

// Projects is the portfolio in display order.
var Projects = []Project{
	{ID: "fintech-platform", Title: "Fintech Platform", Color: 0x4F46E5},
	{ID: "ecommerce-solution", Title: "E-commerce Solution", Color: 0xEC4899},
	{ID: "healthcare-app", Title: "Healthcare App", Color: 0x10B981},
	{ID: "iot-dashboard", Title: "IoT Dashboard", Color: 0xF59E0B},
	{ID: "social-platform", Title: "Social Platform", Color: 0x06B6D4},
	{ID: "logistics-system", Title: "Logistics System", Color: 0x8B5CF6},
}

// ProjectByID looks a project up by id.
func ProjectByID(id string) (Project, bool) {
	for _, p := range Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// PreviewOptions configures OpenPreview.
type PreviewOptions struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// Preview is a modal 3D view of one project. Each Preview owns its host; nothing is
// shared with the hero or with other previews.
type Preview struct {
	project Project
	host    *loop.Host
	body    int
	wire    int
	closed  bool
}

// OpenPreview renders project into container on its own loop driven by frames.
func OpenPreview(frames hal.Frames, container hal.Display, project Project, opts PreviewOptions) (*Preview, error) {
	host := loop.New(frames, loop.Options{
		Now:            opts.Now,
		Logger:         opts.Logger,
		MaxMeshes:      2,
		MaxPointClouds: 1,
	})
	if err := host.Initialize(container); err != nil {
		return nil, err
	}

	cam := host.Camera()
	cam.FOVYRad = quarkgl.Deg(50)
	cam.Position = quarkgl.V3(0, 0, 5)
	cam.Target = quarkgl.V3(0, 0, 0)

	tint := quarkgl.Hex(project.Color)
	accent := quarkgl.Hex(0x0EA5E9)
	scene := host.Scene()
	scene.Fog = quarkgl.Fog{}
	scene.Lighting = quarkgl.Lighting{
		Ambient:          quarkgl.Hex(0xFFFFFF),
		AmbientIntensity: 0.5,
		Points: []quarkgl.PointLight{
			{Color: tint, Intensity: 2, Position: quarkgl.V3(3, 3, 3), Distance: 20},
			{Color: accent, Intensity: 1.5, Position: quarkgl.V3(-3, -2, 2), Distance: 15},
		},
	}

	body := quarkgl.Icosahedron(1.5, 1)
	body.Material = quarkgl.Material{BaseColor: tint, Opacity: 0xFF, Emissive: tint, EmissiveIntensity: 0.3}
	wire := quarkgl.Icosahedron(1.52, 1)
	wire.Material = quarkgl.Material{BaseColor: accent, Opacity: 77, Wireframe: true, Unlit: true}

	p := &Preview{project: project, host: host}
	p.body = scene.AddMesh(body)
	p.wire = scene.AddMesh(wire)
	host.OnFrame(func(_, elapsed float32) { p.Animate(elapsed) })
	host.Start()
	return p, nil
}

// Project returns the previewed project.
func (p *Preview) Project() Project { return p.project }

// Host returns the preview's own render host.
func (p *Preview) Host() *loop.Host { return p.host }

// Animate poses both meshes for elapsed seconds.
func (p *Preview) Animate(t float32) {
	if p.closed {
		return
	}
	s := 1 + math32.Sin(t*2)*0.05
	scale := quarkgl.V3(s, s, s)
	scene := p.host.Scene()
	scene.UpdateMeshTransform(p.body, quarkgl.Mat4Compose(quarkgl.Vec3{}, quarkgl.V3(t*0.3, t*0.5, 0), scale))
	scene.UpdateMeshTransform(p.wire, quarkgl.Mat4Compose(quarkgl.Vec3{}, quarkgl.V3(t*-0.2, t*-0.4, 0), scale))
}

// Resize forwards a container resize.
func (p *Preview) Resize(w, h int) {
	if p.closed {
		return
	}
	p.host.Resize(w, h)
}

// Close stops the loop and releases the host. It is idempotent.
func (p *Preview) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.host.Dispose()
}

// Closed reports whether Close has run.
func (p *Preview) Closed() bool { return p.closed }

// insetOverlay composites an offscreen preview over the hero with a dimmed backdrop.
type insetOverlay struct {
	fb hal.Framebuffer
}

var (
	backdrop = quarkgl.Hex(0x000000)
	frame    = quarkgl.Hex(0x0EA5E9)
)

func (o insetOverlay) DrawOverlay(t quarkgl.Target) {
	w, h := t.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.SetPixel(x, y, quarkgl.Lerp(t.Pixel(x, y), backdrop, 0.6))
		}
	}
	if o.fb == nil {
		return
	}
	iw, ih := o.fb.Width(), o.fb.Height()
	x0, y0 := (w-iw)/2, (h-ih)/2
	for y := -1; y <= ih; y++ {
		for x := -1; x <= iw; x++ {
			if x < 0 || y < 0 || x == iw || y == ih {
				t.SetPixel(x0+x, y0+y, frame)
				continue
			}
			r, g, b := hal.Pixel(o.fb, x, y)
			t.SetPixel(x0+x, y0+y, quarkgl.RGB(r, g, b))
		}
	}
}
