//go:build linux

package hal

import "golang.org/x/sys/unix"

// totalMemoryGB reports physical memory, or 0 when unknown.
func totalMemoryGB() float64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	total := uint64(info.Totalram) * uint64(info.Unit)
	return float64(total) / (1 << 30)
}
