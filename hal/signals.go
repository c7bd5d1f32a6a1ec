package hal

import (
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"lukeforge/studio/capability"
)

// Environment overrides for host capability signals.
const (
	EnvUserAgent     = "LUKEFORGE_USER_AGENT"
	EnvReducedMotion = "LUKEFORGE_REDUCED_MOTION"
	EnvSaveData      = "LUKEFORGE_SAVE_DATA"
	EnvEffectiveType = "LUKEFORGE_EFFECTIVE_TYPE"
	EnvBasicGraphics = "LUKEFORGE_BASIC_GRAPHICS"
)

// ProbeSignals gathers capability signals from the host and the environment.
func ProbeSignals() capability.Signals {
	return probeSignals(os.Getenv)
}

func probeSignals(getenv func(string) string) capability.Signals {
	s := capability.Signals{
		UserAgent:      hostUserAgent(),
		Cores:          runtime.NumCPU(),
		DeviceMemoryGB: bucketMemoryGB(totalMemoryGB()),
	}
	if v := strings.TrimSpace(getenv(EnvUserAgent)); v != "" {
		s.UserAgent = v
	}
	if v, ok := envBool(getenv, EnvReducedMotion); ok {
		s.ReducedMotion = v
	}
	if v, ok := envBool(getenv, EnvSaveData); ok {
		s.SaveData = v
	}
	if v := strings.TrimSpace(getenv(EnvEffectiveType)); v != "" {
		s.EffectiveType = v
	}
	if v, ok := envBool(getenv, EnvBasicGraphics); ok {
		advanced := !v
		s.AdvancedGraphics = &advanced
	}
	return s
}

// Memory is reported in power-of-two buckets, like a browser's deviceMemory.
const (
	minMemoryBucketGB = 0.25
	maxMemoryBucketGB = 8
)

// bucketMemoryGB rounds gb to the nearest power of two in [0.25, 8]. Zero stays
// zero (unknown).
func bucketMemoryGB(gb float64) float64 {
	if gb <= 0 || math.IsNaN(gb) {
		return 0
	}
	b := math.Exp2(math.Round(math.Log2(gb)))
	return min(max(b, minMemoryBucketGB), maxMemoryBucketGB)
}

func hostUserAgent() string {
	return "lukeforge (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
