//go:build cgo || windows || darwin

package hal

import (
	"image"

	"lukeforge/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	// Scale is the number of window pixels per framebuffer pixel.
	Scale int
	TPS   int
	Title string
}

// RunWindow opens a desktop window that displays the framebuffer and forwards
// pointer, keyboard, focus and resize events. It blocks until the window closes
// or the app step returns an error.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 360
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "LukeForge"
	}

	h := New(cfg.Width, cfg.Height).(*hostHAL)
	g := &hostGame{h: h, newApp: newApp, scale: cfg.Scale, focused: true}

	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h      *hostHAL
	newApp func(HAL) func() error
	step   func() error
	scale  int

	img   *image.RGBA
	fbImg *ebiten.Image

	focused   bool
	minimized bool
	cursorX   int
	cursorY   int
	inside    bool
	closing   bool

	layoutW, layoutH int
}

func (g *hostGame) Update() error {
	if g.step == nil {
		g.h.setPixelRatio(ebiten.Monitor().DeviceScaleFactor())
		g.step = g.newApp(g.h)
	}
	if g.layoutW > 0 && g.layoutH > 0 {
		g.h.resize(g.layoutW, g.layoutH)
	}
	g.pollLifecycle()
	g.pollPointer()
	g.pollKeys()
	return g.h.tick(g.step)
}

func (g *hostGame) pollLifecycle() {
	emit := g.h.events.emit
	if ebiten.IsWindowBeingClosed() && !g.closing {
		g.closing = true
		emit(Event{Kind: EventClose})
	}
	if f := ebiten.IsFocused(); f != g.focused {
		g.focused = f
		if f {
			emit(Event{Kind: EventFocus})
		} else {
			emit(Event{Kind: EventBlur})
		}
	}
	if m := ebiten.IsWindowMinimized(); m != g.minimized {
		g.minimized = m
		if m {
			emit(Event{Kind: EventHidden})
		} else {
			emit(Event{Kind: EventVisible})
		}
	}
}

func (g *hostGame) pollPointer() {
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.h.fb.Width() && y < g.h.fb.Height()
	if !inside {
		if g.inside {
			g.inside = false
			g.h.events.emit(Event{Kind: EventPointerLeave})
		}
		return
	}
	if g.inside && x == g.cursorX && y == g.cursorY {
		return
	}
	g.inside = true
	g.cursorX, g.cursorY = x, y
	g.h.events.emit(Event{Kind: EventPointerMove, X: x, Y: y})
}

var windowKeys = [...]struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyTab, KeyTab},
	{ebiten.KeySpace, KeySpace},
}

func (g *hostGame) pollKeys() {
	for _, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Code: k.code, Press: true}})
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Code: k.code, Press: false}})
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.h.events.emit(Event{Kind: EventKey, Key: KeyEvent{Press: true, Rune: r}})
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h <= 0 {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	fb.snapshotRGBA(g.img.Pix)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout maps the window onto the framebuffer at the configured scale. The
// framebuffer itself is resized on the next Update.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.layoutW = outsideWidth / g.scale
	g.layoutH = outsideHeight / g.scale
	if g.layoutW <= 0 || g.layoutH <= 0 {
		return g.h.fb.Width(), g.h.fb.Height()
	}
	return g.layoutW, g.layoutH
}
