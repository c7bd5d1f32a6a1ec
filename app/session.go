// Package app wires the capability probe, the render host and the hero effects
// into one session driven by a hal runner.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/sync/errgroup"

	"lukeforge/hal"
	"lukeforge/internal/buildinfo"
	"lukeforge/studio/capability"
	"lukeforge/studio/effects/forge"
	"lukeforge/studio/effects/glow"
	"lukeforge/studio/effects/particles"
	"lukeforge/studio/effects/wordmark"
	"lukeforge/studio/glyphs"
	"lukeforge/studio/loop"
	"lukeforge/studio/pointer"
)

// ErrClosed is returned by Step once the session has been closed. Runners treat it
// as a clean exit.
var ErrClosed = errors.New("app: session closed")

const (
	driftRate = 0.05
	driftX    = 0.5
	driftY    = 0.3
)

// Session is one run of the hero. All methods run on the runner goroutine.
type Session struct {
	h   hal.HAL
	cfg Config
	log *slog.Logger

	profile    capability.Profile
	static     bool
	staticFont *glyphs.Font
	started bool
	closed  bool

	host     *loop.Host
	ptr      pointer.State
	word     *wordmark.Wordmark
	field    *particles.Field
	knot     *forge.Knot
	glow     *glow.Glow
	overlays []loop.Overlay

	preview      *Preview
	previewInset insetOverlay
	previewIdx   int
}

// NewSession prepares a session; nothing is allocated until Start.
func NewSession(h hal.HAL, cfg Config, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{h: h, cfg: cfg, log: log, previewIdx: -1}
}

// Start probes the device once and builds the presentation for its tier.
func (s *Session) Start(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	s.profile = capability.Assess(s.cfg.Apply(s.h.Signals()))
	s.log.Info("capability assessed",
		"tier", s.profile.Tier.String(),
		"mobile", s.profile.Mobile,
		"density", s.profile.DensityScale,
		"basic", s.profile.Basic,
		"build", buildinfo.Short(),
	)

	if !s.profile.Animated() {
		return s.showStatic("tier")
	}

	host := loop.New(s.h.Frames(), loop.Options{
		Now:    s.h.Now,
		Logger: s.log,
		OnError: func(err error) {
			s.log.Debug("frame callback recovered", "err", err)
		},
	})
	if err := host.Initialize(s.h.Display()); err != nil {
		var sie *loop.SurfaceInitError
		if errors.As(err, &sie) {
			s.log.Warn("render surface unavailable, showing static hero", "err", err)
			return s.showStatic("surface")
		}
		return err
	}
	s.host = host
	s.ptr.SetBounds(host.Size())

	font, set, err := s.prepare(ctx)
	if err != nil {
		s.Close()
		return err
	}
	if err := s.build(font, set); err != nil {
		s.Close()
		return err
	}
	host.Start()
	s.log.Info("hero started", "particles", s.field.Count(), "fallback_text", s.word.Fallback())
	return nil
}

// prepare fetches the font and generates particles concurrently. A font failure is
// not an error; the wordmark falls back to blocks.
func (s *Session) prepare(ctx context.Context) (*glyphs.Font, particles.Set, error) {
	var (
		font *glyphs.Font
		set  particles.Set
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		timeout := s.cfg.FontTimeout.Duration
		if timeout <= 0 {
			timeout = wordmark.DefaultFontTimeout
		}
		fctx, cancel := context.WithTimeout(gctx, timeout)
		defer cancel()
		f, err := s.fontSource().Font(fctx)
		if err != nil {
			s.log.Warn("wordmark font unavailable, using fallback", "err", err)
			return nil
		}
		font = f
		return nil
	})
	g.Go(func() error {
		var opts []particles.Option
		if s.cfg.Seed != 0 {
			opts = append(opts, particles.WithSeed(s.cfg.Seed))
		}
		set = particles.Generate(s.profile.ParticleCount(s.cfg.Particles), s.profile.Basic, opts...)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, set, err
	}
	if err := ctx.Err(); err != nil {
		return nil, set, err
	}
	return font, set, nil
}

func (s *Session) fontSource() glyphs.Source {
	if s.cfg.FontURL == "" {
		return glyphs.BytesSource(gobold.TTF)
	}
	return glyphs.HTTPSource{URL: s.cfg.FontURL}
}

func (s *Session) build(font *glyphs.Font, set particles.Set) error {
	var err error
	s.word, err = wordmark.New(s.host, font, wordmark.Options{
		Text:   s.cfg.Text,
		Now:    s.h.Now,
		Logger: s.log,
	})
	if err != nil {
		return fmt.Errorf("app: wordmark: %w", err)
	}
	s.host.Register(s.word)

	s.field, err = particles.Attach(s.host, set, s.profile.Basic)
	if err != nil {
		return fmt.Errorf("app: particles: %w", err)
	}
	s.host.Register(s.field)

	if s.cfg.Forge && s.profile.Tier == capability.TierFull && !s.profile.Mobile {
		s.knot, err = forge.New(s.host)
		if err != nil {
			return fmt.Errorf("app: forge: %w", err)
		}
		s.host.Register(s.knot)
	}

	s.host.OnFrame(s.drift)

	if s.cfg.Glow && s.profile.PointerGlow {
		s.glow = glow.New(s.h.Frames(), &s.ptr, s.host)
	}
	if s.cfg.HUD {
		o := &hud{text: s.hudText}
		s.host.AddOverlay(o)
		s.overlays = append(s.overlays, o)
	}
	return nil
}

// drift eases the camera toward a pointer-dependent offset. The camera translates,
// so its view direction stays fixed.
func (s *Session) drift(_, _ float32) {
	cam := s.host.Camera()
	if cam == nil {
		return
	}
	nx, ny := s.ptr.Normalized()
	dx := (nx*driftX - cam.Position.X) * driftRate
	dy := (ny*driftY - cam.Position.Y) * driftRate
	cam.Position.X += dx
	cam.Position.Y += dy
	cam.Target.X += dx
	cam.Target.Y += dy
}

func (s *Session) hudText() string {
	st := s.host.Stats()
	return fmt.Sprintf("lukeforge %s  %s  %d", buildinfo.Short(), s.profile.Tier, st.Ticks)
}

func (s *Session) showStatic(reason string) error {
	s.static = true
	font, err := glyphs.Parse(gobold.TTF)
	if err != nil {
		s.log.Warn("static font unavailable", "err", err)
		font = nil
	}
	s.staticFont = font
	var fb hal.Framebuffer
	if d := s.h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	if err := drawStatic(fb, font, s.cfg.Text, s.cfg.Tagline); err != nil {
		return fmt.Errorf("app: static: %w", err)
	}
	s.log.Info("static hero shown", "reason", reason)
	return nil
}

// Step drains pending platform events. It returns ErrClosed after the session closes.
func (s *Session) Step() error {
	if s.closed {
		return ErrClosed
	}
	in := s.h.Input()
	if in == nil {
		return nil
	}
	events := in.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.handle(ev)
			if s.closed {
				return ErrClosed
			}
		default:
			return nil
		}
	}
}

func (s *Session) handle(ev hal.Event) {
	switch ev.Kind {
	case hal.EventClose:
		s.Close()
		return
	case hal.EventResize:
		s.resize(ev.W, ev.H)
		return
	}
	if s.host == nil {
		if ev.Kind == hal.EventKey && ev.Key.Press && ev.Key.Code == hal.KeyEscape {
			s.Close()
		}
		return
	}

	switch ev.Kind {
	case hal.EventPointerMove:
		s.ptr.Set(float32(ev.X), float32(ev.Y))
		nx, ny := s.ptr.Normalized()
		s.word.ReactToPointer(nx, ny)
		s.word.SetHovered(s.word.HitTest(nx, ny))
	case hal.EventPointerLeave:
		s.word.SetHovered(false)
	case hal.EventHidden, hal.EventBlur:
		s.pause()
	case hal.EventVisible, hal.EventFocus:
		s.resume()
	case hal.EventKey:
		if ev.Key.Press {
			s.key(ev.Key)
		}
	}
}

// pause stops every loop the session owns: the hero, the glow and an open preview.
func (s *Session) pause() {
	s.host.Stop()
	if s.glow != nil {
		s.glow.Stop()
	}
	if s.preview != nil {
		s.preview.Host().Stop()
	}
}

func (s *Session) resume() {
	s.host.Start()
	if s.glow != nil {
		s.glow.Start()
	}
	if s.preview != nil {
		s.preview.Host().Start()
	}
}

func (s *Session) resize(w, h int) {
	if s.static {
		if d := s.h.Display(); d != nil {
			if err := drawStatic(d.Framebuffer(), s.staticFont, s.cfg.Text, s.cfg.Tagline); err != nil {
				s.log.Warn("static redraw failed", "err", err)
			}
		}
		return
	}
	if s.host == nil {
		return
	}
	s.ptr.SetBounds(w, h)
	s.host.Resize(w, h)
	if s.preview != nil {
		s.reopenPreview()
	}
}

func (s *Session) key(k hal.KeyEvent) {
	switch {
	case k.Code == hal.KeyTab:
		s.OpenPreview((s.previewIdx + 1) % len(Projects))
	case k.Code == hal.KeyEscape:
		if s.preview != nil {
			s.ClosePreview()
			return
		}
		s.Close()
	case k.Rune >= '1' && k.Rune < '1'+rune(len(Projects)):
		s.OpenPreview(int(k.Rune - '1'))
	}
}

// OpenPreview shows Projects[i] in a modal inset, replacing any open preview.
func (s *Session) OpenPreview(i int) {
	if s.host == nil || s.closed || i < 0 || i >= len(Projects) {
		return
	}
	s.ClosePreview()
	w, h := s.host.Size()
	container := hal.NewOffscreen(w*3/5, h*3/5)
	p, err := OpenPreview(s.h.Frames(), container, Projects[i], PreviewOptions{Now: s.h.Now, Logger: s.log})
	if err != nil {
		s.log.Warn("preview unavailable", "project", Projects[i].ID, "err", err)
		return
	}
	if s.host.State() != loop.StateRunning {
		p.Host().Stop()
	}
	s.preview = p
	s.previewIdx = i
	s.previewInset = insetOverlay{fb: container.Framebuffer()}
	s.host.AddOverlay(s.previewInset)
	s.log.Debug("preview opened", "project", p.Project().ID)
}

func (s *Session) reopenPreview() {
	i := s.previewIdx
	s.ClosePreview()
	s.OpenPreview(i)
}

// ClosePreview closes the open preview, if any.
func (s *Session) ClosePreview() {
	if s.preview == nil {
		return
	}
	s.host.RemoveOverlay(s.previewInset)
	s.preview.Close()
	s.preview = nil
	s.previewInset = insetOverlay{}
}

// Preview returns the open preview or nil.
func (s *Session) Preview() *Preview { return s.preview }

// Profile returns the assessed profile; it is zero before Start.
func (s *Session) Profile() capability.Profile { return s.profile }

// Static reports whether the motionless presentation is shown.
func (s *Session) Static() bool { return s.static }

// Host returns the render host, or nil in static mode.
func (s *Session) Host() *loop.Host { return s.host }

// Close tears everything down. It is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.host != nil {
		s.ClosePreview()
	}
	if s.glow != nil {
		s.glow.Dispose()
	}
	if s.word != nil {
		s.word.Dispose()
	}
	if s.field != nil {
		s.field.Dispose()
	}
	if s.knot != nil {
		s.knot.Dispose()
	}
	if s.host != nil {
		for _, o := range s.overlays {
			s.host.RemoveOverlay(o)
		}
		st := s.host.Stats()
		s.log.Info("session closed",
			"ticks", st.Ticks,
			"renders", st.Renders,
			"recovered", st.Recovered,
			"elapsed", s.host.Elapsed(),
		)
		s.host.Dispose()
	}
}

// Launcher adapts sessions to the hal runner entry point.
type Launcher struct {
	Ctx    context.Context
	Config Config
	Logger *slog.Logger

	session *Session
}

// NewApp creates and starts a session on h and returns its step function.
func (l *Launcher) NewApp(h hal.HAL) func() error {
	ctx := l.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s := NewSession(h, l.Config, l.Logger)
	l.session = s
	if err := s.Start(ctx); err != nil {
		return func() error { return err }
	}
	return s.Step
}

// Session returns the last session created by NewApp.
func (l *Launcher) Session() *Session { return l.session }

// Close closes the last session, if any.
func (l *Launcher) Close() {
	if l.session != nil {
		l.session.Close()
	}
}
