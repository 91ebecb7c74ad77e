// Package whisper implements a single-file, fixed-size, round-robin
// time-series database for regularly-sampled scalar metrics. A database
// stores one metric at several resolutions simultaneously: a chain of
// ring-buffer archives of increasing coarseness, where every write into
// the finest archive is automatically propagated into each coarser one.
package whisper

import (
	"os"
	"time"
)

// Options configures the behavior of operations performed through a
// Whisper handle. No configuration lives in package-level state; callers
// that would otherwise flip global switches construct one of these
// instead. (The header cache behind CacheHeaders is process-wide.)
type Options struct {
	// Lock takes an advisory exclusive lock on the file for the
	// duration of every mutating operation.
	Lock bool
	// AutoFlush fsyncs the file after every mutating operation.
	AutoFlush bool
	// CacheHeaders consults and populates the process-wide header cache
	// keyed by file identity (device+inode).
	CacheHeaders bool
	// FadviseRandom hints the kernel that access to this file will be
	// random rather than sequential.
	FadviseRandom bool
	// Sparse controls the body-reservation strategy used by Create: a
	// sparse file seeks to the last byte and writes a single zero,
	// relying on the filesystem to report the intervening bytes as
	// zero; a non-sparse file gets its body zero-filled up front.
	Sparse bool
	// UseFallocate, when set and non-sparse, asks the kernel to reserve
	// the archive bodies with fallocate(2) instead of writing zero
	// buffers by hand. Ignored on platforms without native fallocate.
	UseFallocate bool
	// Now overrides the wall clock, for tests.
	Now func() uint32
}

func (o Options) now() uint32 {
	if o.Now != nil {
		return o.Now()
	}
	return uint32(time.Now().Unix())
}

// Whisper is an open handle to a whisper database file. A Whisper is not
// safe for concurrent use from multiple goroutines. With Options.Lock
// set, mutating operations take the underlying file's advisory lock,
// which serializes them against other processes, but not against other
// goroutines in this process sharing the same *Whisper -- callers
// sharing a handle across goroutines need their own synchronization.
type Whisper struct {
	file   *os.File
	path   string
	header Header
	opts   Options
	id     fileIdentity
}

// Open opens an existing whisper database at path.
func Open(path string, opts Options) (*Whisper, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o666)
	if err != nil {
		return nil, err
	}

	w := &Whisper{file: f, path: path, opts: opts}

	if id, idErr := fileIdentityOf(f); idErr == nil {
		w.id = id
	}

	err = w.withLock(func() error {
		h, herr := w.loadHeader()
		if herr != nil {
			return herr
		}
		w.header = h
		return nil
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	applyFadvise(w.file, opts.FadviseRandom)

	return w, nil
}

// Close releases the underlying file handle. It does not remove the
// header from the shared cache: the cache is keyed by file identity and
// stays valid for the next Open of the same file.
func (w *Whisper) Close() error {
	return w.file.Close()
}

// Sync flushes and fsyncs the underlying file.
func (w *Whisper) Sync() error {
	return w.file.Sync()
}

// Header returns the currently loaded header. Callers must not mutate
// the returned value's Archives slice.
func (w *Whisper) Header() Header { return w.header }

// Path returns the filesystem path this handle was opened with.
func (w *Whisper) Path() string { return w.path }

// withLock runs fn under the configured advisory lock (if enabled) and
// autoflushes afterwards (if enabled and fn succeeded). Every exported
// mutating method routes through this.
func (w *Whisper) withLock(fn func() error) error {
	if w.opts.Lock {
		if err := acquireLock(w.file); err != nil {
			return err
		}
		defer releaseLock(w.file)
	}

	err := fn()

	if err == nil && w.opts.AutoFlush {
		err = w.file.Sync()
	}

	return err
}
