//go:build linux

package whisper

import "golang.org/x/sys/unix"

// applyFadvise hints the kernel's readahead heuristics. Whisper archives
// are accessed at essentially random offsets once a file holds more than
// a handful of points, so FADV_RANDOM avoids wasted readahead; it's a
// hint, errors are not actionable and are ignored.
func applyFadvise(f interface{ Fd() uintptr }, random bool) {
	if !random {
		return
	}
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
