//go:build linux

package whisper

import "golang.org/x/sys/unix"

const haveNativeFallocate = true

// fallocateBody reserves size bytes starting at offset using the native
// fallocate(2) syscall, which allocates real blocks (unlike a sparse
// seek-and-write-one-byte file) without the cost of writing size zero
// bytes through the page cache by hand.
func fallocateBody(fd uintptr, offset, size int64) error {
	return unix.Fallocate(int(fd), 0, offset, size)
}
