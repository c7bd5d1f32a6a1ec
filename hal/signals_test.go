package hal

import (
	"testing"

	"lukeforge/studio/capability"
)

func TestProbeSignalsEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvUserAgent:     "Mozilla/5.0 (iPhone)",
		EnvReducedMotion: "true",
		EnvSaveData:      "1",
		EnvEffectiveType: "2g",
		EnvBasicGraphics: "yes", // not a bool, ignored
	}
	s := probeSignals(func(k string) string { return env[k] })
	if s.UserAgent != "Mozilla/5.0 (iPhone)" {
		t.Fatalf("UserAgent = %q", s.UserAgent)
	}
	if !s.ReducedMotion || !s.SaveData || s.EffectiveType != "2g" {
		t.Fatalf("signals = %+v", s)
	}
	if s.AdvancedGraphics != nil {
		t.Fatal("invalid bool should leave AdvancedGraphics unknown")
	}
	if s.Cores <= 0 {
		t.Fatalf("Cores = %d", s.Cores)
	}
}

func TestProbeSignalsBasicGraphics(t *testing.T) {
	s := probeSignals(func(k string) string {
		if k == EnvBasicGraphics {
			return "true"
		}
		return ""
	})
	if s.AdvancedGraphics == nil || *s.AdvancedGraphics {
		t.Fatalf("AdvancedGraphics = %v, want false", s.AdvancedGraphics)
	}
	if s.UserAgent == "" {
		t.Fatal("missing host user agent")
	}
}

func TestBucketMemoryGB(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{-1, 0},
		{0.1, 0.25},
		{0.5, 0.5},
		{1.9, 2},
		{3.74, 4},
		{3.9, 4},
		{4, 4},
		{7.6, 8},
		{31.2, 8},
	}
	for _, tt := range tests {
		if got := bucketMemoryGB(tt.in); got != tt.want {
			t.Fatalf("bucketMemoryGB(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProbeSignalsBucketsMemory(t *testing.T) {
	s := probeSignals(func(string) string { return "" })
	if s.DeviceMemoryGB != bucketMemoryGB(s.DeviceMemoryGB) {
		t.Fatalf("DeviceMemoryGB = %v is not a bucket", s.DeviceMemoryGB)
	}
}

func TestUsableRAMKeepsAnimatedTier(t *testing.T) {
	for _, gib := range []float64{3.74, 3.84, 3.9} {
		p := capability.Assess(capability.Signals{DeviceMemoryGB: bucketMemoryGB(gib), Cores: 8})
		if !p.Animated() {
			t.Fatalf("%v GiB: tier = %v, want animated", gib, p.Tier)
		}
	}
}
