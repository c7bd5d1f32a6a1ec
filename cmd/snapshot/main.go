// Command snapshot renders the hero headlessly on a simulated clock and writes the
// last frame as a PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"lukeforge/app"
	"lukeforge/hal"
)

func main() {
	var (
		outPath   = flag.String("out", "hero.png", "Output PNG.")
		width     = flag.Int("width", 640, "Frame width.")
		height    = flag.Int("height", 360, "Frame height.")
		frames    = flag.Uint64("frames", 120, "Frames to simulate before capturing.")
		hz        = flag.Int("hz", 60, "Simulated frame rate.")
		tier      = flag.String("tier", "", "Force the rendering tier: full, reduced or static.")
		seed      = flag.Uint64("seed", 1, "Particle seed.")
		particles = flag.Int("particles", 2000, "Requested particle count.")
		fontURL   = flag.String("font-url", "", "Wordmark font URL; empty uses the bundled font.")
	)
	flag.Parse()

	cfg := app.DefaultConfig()
	cfg.Tier = *tier
	cfg.Seed = *seed
	cfg.Particles = *particles
	cfg.FontURL = *fontURL

	log := hal.NewSlog(hal.NewLineLogger(os.Stderr), cfg.Level())
	launcher := &app.Launcher{Ctx: context.Background(), Config: cfg, Logger: log}

	var img *image.RGBA
	err := hal.RunHeadless(context.Background(), launcher.NewApp, hal.HeadlessConfig{
		Enabled:   true,
		Hz:        *hz,
		Ticks:     *frames,
		Width:     *width,
		Height:    *height,
		Simulated: true,
		OnExit: func(h hal.HAL) {
			img = capture(h.Display().Framebuffer())
			launcher.Close()
		},
	})
	if err != nil && !errors.Is(err, app.ErrClosed) {
		fatalf("snapshot: %v", err)
	}
	if img == nil {
		fatalf("snapshot: no frame captured")
	}
	if err := writePNG(*outPath, img); err != nil {
		fatalf("snapshot: %v", err)
	}
	fmt.Printf("wrote %s (%dx%d, %d frames)\n", *outPath, img.Bounds().Dx(), img.Bounds().Dy(), *frames)
}

func capture(fb hal.Framebuffer) *image.RGBA {
	if fb == nil {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			r, g, b := hal.Pixel(fb, x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
