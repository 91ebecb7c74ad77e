package whisper

import (
	"io"
	"os"

	"github.com/natefinch/atomic"
)

// Resize rewrites the whisper database at path with a new archive
// configuration, migrating every point that fits under the new
// retention and precision rules. It builds the new file under a
// temporary name, migrates the old data into it archive by archive,
// and atomically replaces the original; a concurrent reader opening
// path either sees the complete old file or the complete new one,
// never a partial rewrite. If keepBackup is set, the original file is
// preserved alongside the new one with a ".bak" suffix instead of
// being discarded.
//
// The old and new archive lists are never the same (that is the point
// of resizing), so this cannot go through Merge, which requires
// identical configurations. Instead, following whisper-resize.py's
// non-aggregating migration, each old archive is fetched over its own
// full retention window and funneled into the new file through
// UpdateMany, which routes every point to whichever new archive's
// retention covers its age.
func Resize(path string, archives []ArchiveInfo, xFilesFactor float32, method AggregationMethod, opts Options, keepBackup bool) error {
	old, err := Open(path, opts)
	if err != nil {
		return err
	}

	tmpPath := path + ".resize.tmp"
	_ = os.Remove(tmpPath)

	next, err := Create(tmpPath, archives, xFilesFactor, method, opts)
	if err != nil {
		old.Close()
		return err
	}

	if err := migrateForResize(next, old); err != nil {
		next.Close()
		old.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := next.Sync(); err != nil {
		next.Close()
		old.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if keepBackup {
		if err := copyFile(path, path+".bak"); err != nil {
			next.Close()
			old.Close()
			_ = os.Remove(tmpPath)
			return err
		}
	}

	id := old.id
	next.Close()
	old.Close()

	if err := atomic.ReplaceFile(tmpPath, path); err != nil {
		return err
	}

	if opts.CacheHeaders {
		invalidateHeader(id)
	}

	return nil
}

// migrateForResize copies every known point from each of old's archives
// into next, which may have an entirely different archive list. Each
// archive is read over its own full retention window (not ratcheted
// against the others the way Merge's windows are, since old's archives
// may no longer line up with next's at all) and handed to UpdateMany,
// which places every point by age.
func migrateForResize(next, old *Whisper) error {
	return next.withLock(func() error {
		now := next.opts.now()

		for _, archive := range old.header.Archives {
			var from uint32
			if retention := archive.Retention(); retention < now {
				from = now - retention
			}

			series, err := old.fetchFromArchive(archive, from, now)
			if err != nil {
				return err
			}

			points := seriesToPoints(series)
			if len(points) > 0 {
				if err := next.updateMany(points); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
