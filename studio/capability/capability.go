// Package capability classifies the runtime device into a rendering tier.
//
// Assess is pure: it reads a Signals snapshot and returns a Profile. Absent signals
// never degrade the result.
package capability

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Tier is the coarse rendering fidelity chosen for a session.
type Tier uint8

const (
	TierFull Tier = iota
	TierReduced
	TierStatic
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierReduced:
		return "reduced"
	case TierStatic:
		return "static"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier parses "full", "reduced" or "static". The empty string parses as ok=false.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return TierFull, true
	case "reduced":
		return TierReduced, true
	case "static":
		return TierStatic, true
	default:
		return TierFull, false
	}
}

// Signals is a snapshot of device telemetry. Zero values mean "not reported".
type Signals struct {
	UserAgent  string
	PixelRatio float64

	// DeviceMemoryGB and Cores are only considered when > 0.
	DeviceMemoryGB float64
	Cores          int

	SaveData      bool
	EffectiveType string // "slow-2g", "2g", "3g", "4g"

	ReducedMotion bool

	// AdvancedGraphics is nil when unknown.
	AdvancedGraphics *bool

	// ForceTier overrides the computed tier unless reduced motion is set.
	ForceTier string
}

// Profile is the outcome of Assess.
type Profile struct {
	Tier   Tier
	Mobile bool

	// DensityScale multiplies requested particle counts.
	DensityScale float64
	// PointerGlow reports whether a precise pointer can be assumed.
	PointerGlow bool
	// Basic selects the simplified point representation.
	Basic bool
}

const (
	densityMobile    = 0.3
	densityHighDPI   = 0.7
	densityDefault   = 1.0
	minMemoryGB      = 4
	minCores         = 4
	highDPIThreshold = 2
)

var mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobile reports whether the user agent names a mobile platform.
func IsMobile(userAgent string) bool {
	return userAgent != "" && mobileUA.MatchString(userAgent)
}

// Assess classifies s.
func Assess(s Signals) Profile {
	p := Profile{
		Tier:         tierOf(s),
		Mobile:       IsMobile(s.UserAgent),
		DensityScale: densityDefault,
		PointerGlow:  true,
		Basic:        s.AdvancedGraphics != nil && !*s.AdvancedGraphics,
	}
	switch {
	case p.Mobile || p.Tier == TierReduced:
		p.DensityScale = densityMobile
		p.PointerGlow = false
	case s.PixelRatio > highDPIThreshold:
		p.DensityScale = densityHighDPI
	}
	if p.Tier == TierStatic {
		p.PointerGlow = false
	}
	return p
}

func tierOf(s Signals) Tier {
	if s.ReducedMotion {
		return TierStatic
	}
	if t, ok := ParseTier(s.ForceTier); ok {
		return t
	}
	if s.SaveData {
		return TierStatic
	}
	switch strings.ToLower(s.EffectiveType) {
	case "slow-2g", "2g":
		return TierStatic
	}
	if s.DeviceMemoryGB > 0 && s.DeviceMemoryGB < minMemoryGB {
		return TierStatic
	}
	if s.Cores > 0 && s.Cores < minCores {
		return TierStatic
	}
	return TierFull
}

// ParticleCount scales a requested particle count by the profile density.
func (p Profile) ParticleCount(requested int) int {
	if requested <= 0 {
		return 0
	}
	scale := p.DensityScale
	if scale <= 0 {
		scale = densityDefault
	}
	return int(math.Floor(float64(requested) * scale))
}

// Animated reports whether the tier runs the render loop.
func (p Profile) Animated() bool { return p.Tier != TierStatic }
