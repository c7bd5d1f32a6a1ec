package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lukeforge/app"
	"lukeforge/hal"
	"lukeforge/internal/buildinfo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		hcfg hal.HeadlessConfig
		wcfg hal.WindowConfig

		term       = flag.Bool("term", false, "Render into the terminal.")
		configPath = flag.String("config", "", "TOML config file.")
		logPath    = flag.String("log", "", "Write logs to this file instead of stderr.")
		version    = flag.Bool("version", false, "Print the build and exit.")

		defaults      = app.DefaultConfig()
		tier          = flag.String("tier", "", "Force the rendering tier: full, reduced or static.")
		reducedMotion = flag.Bool("reduced-motion", false, "Act as if the user prefers reduced motion.")
		basic         = flag.Bool("basic", false, "Use the simplified particle representation.")
		particles     = flag.Int("particles", defaults.Particles, "Requested particle count before density scaling.")
		fontURL       = flag.String("font-url", defaults.FontURL, "Wordmark font URL; empty uses the bundled font.")
		seed          = flag.Uint64("seed", 0, "Particle seed (0 = random).")
		glow          = flag.Bool("glow", defaults.Glow, "Draw the pointer glow.")
		hud           = flag.Bool("hud", false, "Draw the status line.")
		logLevel      = flag.String("log-level", defaults.LogLevel, "debug, info, warn or error.")
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless and terminal mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless and terminal mode (0 = run forever).")
	flag.IntVar(&wcfg.Width, "width", 640, "Framebuffer width.")
	flag.IntVar(&wcfg.Height, "height", 360, "Framebuffer height.")
	flag.IntVar(&wcfg.Scale, "scale", 2, "Window pixels per framebuffer pixel.")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		return nil
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tier":
			cfg.Tier = *tier
		case "reduced-motion":
			cfg.ReducedMotion = *reducedMotion
		case "basic":
			cfg.BasicGraphics = *basic
		case "particles":
			cfg.Particles = *particles
		case "font-url":
			cfg.FontURL = *fontURL
		case "seed":
			cfg.Seed = *seed
		case "glow":
			cfg.Glow = *glow
		case "hud":
			cfg.HUD = *hud
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	var out io.Writer = os.Stderr
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	case *term:
		out = io.Discard
	}
	log := hal.NewSlog(hal.NewLineLogger(out), cfg.Level())
	slog.SetDefault(log)
	log.Info("lukeforge starting", "build", buildinfo.Short(), "headless", hcfg.Enabled, "term", *term)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launcher := &app.Launcher{Ctx: ctx, Config: cfg, Logger: log}
	defer launcher.Close()

	var err error
	switch {
	case *term:
		err = hal.RunTerminal(ctx, launcher.NewApp, hal.TerminalConfig{Hz: hcfg.Hz, Ticks: hcfg.Ticks})
	case hcfg.Enabled:
		hcfg.Width, hcfg.Height = wcfg.Width, wcfg.Height
		err = hal.RunHeadless(ctx, launcher.NewApp, hcfg)
	default:
		err = hal.RunWindow(launcher.NewApp, wcfg)
	}
	if err == nil || errors.Is(err, app.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
