//go:build !linux

package hal

func totalMemoryGB() float64 { return 0 }
