package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"lukeforge/studio/capability"
)

// DefaultFontURL is the remote wordmark font.
const DefaultFontURL = "https://github.com/golang/image/raw/master/font/gofont/ttfs/Go-Bold.ttf"

// Duration is a time.Duration that decodes from strings such as "4s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the session configuration. It is decoded from TOML; flags set on the
// command line override file values.
type Config struct {
	// Particles is the requested count before density scaling.
	Particles int `toml:"particles"`
	// Seed makes particle generation deterministic when non-zero.
	Seed uint64 `toml:"seed"`

	// FontURL is fetched for the wordmark. Empty uses the bundled Go Bold.
	FontURL     string   `toml:"font_url"`
	FontTimeout Duration `toml:"font_timeout"`
	Text        string   `toml:"text"`
	Tagline     string   `toml:"tagline"`

	// Tier forces "full", "reduced" or "static". Reduced motion still wins.
	Tier          string `toml:"tier"`
	ReducedMotion bool   `toml:"reduced_motion"`
	BasicGraphics bool   `toml:"basic_graphics"`

	Glow  bool `toml:"glow"`
	Forge bool `toml:"forge"`
	HUD   bool `toml:"hud"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Particles:   2000,
		FontURL:     DefaultFontURL,
		FontTimeout: Duration{4 * time.Second},
		Text:        "LUKEFORGE",
		Tagline:     "software, forged",
		Glow:        true,
		Forge:       true,
		LogLevel:    "info",
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("app: config: %w", err)
	}
	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("app: config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes TOML data into cfg, keeping fields the data does not set.
func DecodeConfig(data []byte, cfg *Config) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
}

// Level parses LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Apply folds the configured overrides into probed signals.
func (c Config) Apply(s capability.Signals) capability.Signals {
	if c.Tier != "" {
		s.ForceTier = c.Tier
	}
	if c.ReducedMotion {
		s.ReducedMotion = true
	}
	if c.BasicGraphics {
		off := false
		s.AdvancedGraphics = &off
	}
	return s
}
