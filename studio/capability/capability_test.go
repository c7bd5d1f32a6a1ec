package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

const (
	desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
)

func TestAssessAbsentSignalsIsFull(t *testing.T) {
	p := Assess(Signals{})
	assert.Equal(t, TierFull, p.Tier)
	assert.False(t, p.Mobile)
	assert.Equal(t, 1.0, p.DensityScale)
	assert.True(t, p.PointerGlow)
	assert.False(t, p.Basic)
}

func TestAssessReducedMotionAlwaysStatic(t *testing.T) {
	for _, s := range []Signals{
		{ReducedMotion: true},
		{ReducedMotion: true, Cores: 32, DeviceMemoryGB: 64, UserAgent: desktopUA},
		{ReducedMotion: true, ForceTier: "full"},
		{ReducedMotion: true, EffectiveType: "4g", PixelRatio: 3},
	} {
		assert.Equal(t, TierStatic, Assess(s).Tier, "%+v", s)
	}
}

func TestAssessPrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   Signals
		want Tier
	}{
		{"save data", Signals{SaveData: true, Cores: 16, DeviceMemoryGB: 16}, TierStatic},
		{"slow-2g", Signals{EffectiveType: "slow-2g"}, TierStatic},
		{"2g", Signals{EffectiveType: "2G"}, TierStatic},
		{"3g", Signals{EffectiveType: "3g"}, TierFull},
		{"low memory", Signals{DeviceMemoryGB: 2}, TierStatic},
		{"memory at bound", Signals{DeviceMemoryGB: 4}, TierFull},
		{"few cores", Signals{Cores: 2}, TierStatic},
		{"cores at bound", Signals{Cores: 4}, TierFull},
		{"strong desktop", Signals{Cores: 8, DeviceMemoryGB: 8, UserAgent: desktopUA}, TierFull},
		{"mobile keeps tier", Signals{Cores: 8, DeviceMemoryGB: 8, UserAgent: iphoneUA}, TierFull},
		{"forced reduced", Signals{ForceTier: "reduced"}, TierReduced},
		{"forced full beats save data", Signals{ForceTier: "full", SaveData: true}, TierFull},
		{"unknown force ignored", Signals{ForceTier: "ultra", Cores: 1}, TierStatic},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Assess(tc.in).Tier)
		})
	}
}

func TestAssessDensity(t *testing.T) {
	mobile := Assess(Signals{UserAgent: iphoneUA, PixelRatio: 3})
	assert.True(t, mobile.Mobile)
	assert.Equal(t, 0.3, mobile.DensityScale)
	assert.False(t, mobile.PointerGlow)
	assert.Equal(t, 600, mobile.ParticleCount(2000))

	retina := Assess(Signals{UserAgent: desktopUA, PixelRatio: 2.5})
	assert.False(t, retina.Mobile)
	assert.Equal(t, 0.7, retina.DensityScale)
	assert.Equal(t, 1400, retina.ParticleCount(2000))

	plain := Assess(Signals{UserAgent: desktopUA, PixelRatio: 2})
	assert.Equal(t, 2000, plain.ParticleCount(2000))

	reduced := Assess(Signals{ForceTier: "reduced"})
	assert.Equal(t, 0.3, reduced.DensityScale)
	assert.False(t, reduced.PointerGlow)
}

func TestParticleCountFloors(t *testing.T) {
	p := Profile{DensityScale: 0.3}
	assert.Equal(t, 0, p.ParticleCount(3))
	assert.Equal(t, 3, p.ParticleCount(11))
	assert.Equal(t, 0, p.ParticleCount(-5))
}

func TestMobileUserAgents(t *testing.T) {
	for _, ua := range []string{
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)",
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)",
		"Opera/9.80 (J2ME/MIDP; Opera Mini/9.80)",
		"mozilla/5.0 (webos/3.0.5)",
		"Mozilla/5.0 (compatible; MSIE 10.0; Windows Phone 8.0; IEMobile/10.0)",
	} {
		assert.True(t, IsMobile(ua), ua)
	}
	assert.False(t, IsMobile(desktopUA))
	assert.False(t, IsMobile(""))
}

func TestBasicGraphics(t *testing.T) {
	assert.True(t, Assess(Signals{AdvancedGraphics: boolPtr(false)}).Basic)
	assert.False(t, Assess(Signals{AdvancedGraphics: boolPtr(true)}).Basic)
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" Static ")
	assert.True(t, ok)
	assert.Equal(t, TierStatic, tier)
	_, ok = ParseTier("")
	assert.False(t, ok)
	assert.Equal(t, "reduced", TierReduced.String())
}
