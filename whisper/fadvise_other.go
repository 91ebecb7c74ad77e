//go:build !linux

package whisper

// applyFadvise is a no-op on platforms without posix_fadvise.
func applyFadvise(f interface{ Fd() uintptr }, random bool) {}
