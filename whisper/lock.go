package whisper

import (
	"fmt"
	"os"
	"syscall"
)

// acquireLock takes a blocking advisory exclusive lock directly on f's
// file descriptor, mirroring the fd-level (not sidecar-lockfile) model:
// the lock lives as long as the fd is open and is automatically
// released on Close, so there is nothing left behind for a crashed
// process to clean up.
func acquireLock(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock %s: %w", f.Name(), err)
	}
	return nil
}

func releaseLock(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("unlock %s: %w", f.Name(), err)
	}
	return nil
}
