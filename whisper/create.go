package whisper

import (
	"os"
	"sort"
)

type bySecondsPerPoint []ArchiveInfo

func (a bySecondsPerPoint) Len() int           { return len(a) }
func (a bySecondsPerPoint) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a bySecondsPerPoint) Less(i, j int) bool { return a[i].SecondsPerPoint < a[j].SecondsPerPoint }

// ValidateArchiveList checks that archives forms a legal retention chain:
//
//  1. at least one archive
//  2. no two archives share a precision
//  3. each archive's precision evenly divides the next coarser one's
//  4. each archive's total retention is strictly less than the next
//     coarser one's
//  5. each archive holds enough points to consolidate into one point of
//     the next coarser archive
//
// archives is sorted in place by ascending precision as a side effect.
func ValidateArchiveList(archives []ArchiveInfo) error {
	if len(archives) == 0 {
		return ErrInvalidConfiguration
	}

	sort.Sort(bySecondsPerPoint(archives))

	for i := 0; i < len(archives)-1; i++ {
		cur, next := archives[i], archives[i+1]

		if cur.SecondsPerPoint == next.SecondsPerPoint {
			return ErrInvalidConfiguration
		}
		if next.SecondsPerPoint%cur.SecondsPerPoint != 0 {
			return ErrInvalidConfiguration
		}
		if next.Retention() <= cur.Retention() {
			return ErrInvalidConfiguration
		}
		pointsPerConsolidation := next.SecondsPerPoint / cur.SecondsPerPoint
		if cur.Points < pointsPerConsolidation {
			return ErrInvalidConfiguration
		}
	}

	return nil
}

// Create initializes a new whisper database at path. archives must pass
// ValidateArchiveList. The body of each archive (everything past the
// header) is either reserved sparsely (a hole, relying on the
// filesystem to report zeros) or fully written with zero bytes, per
// Options.Sparse; when not sparse and Options.UseFallocate is set and
// the platform supports it, native fallocate(2) reserves the space
// instead of a byte-by-byte zero-fill.
func Create(path string, archives []ArchiveInfo, xFilesFactor float32, method AggregationMethod, opts Options) (*Whisper, error) {
	if !validXFF(xFilesFactor) {
		return nil, ErrInvalidXFilesFactor
	}
	if !method.valid() {
		return nil, ErrInvalidAggregationMethod
	}
	if err := ValidateArchiveList(archives); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrFileExists
		}
		return nil, err
	}

	var oldest uint32
	for _, a := range archives {
		if r := a.Retention(); r > oldest {
			oldest = r
		}
	}

	metadata := Metadata{
		AggregationMethod: method,
		XFilesFactor:      xFilesFactor,
		ArchiveCount:      uint32(len(archives)),
		MaxRetention:      oldest,
	}

	header := Header{Metadata: metadata}
	offset := header.HeaderSize()
	laidOut := make([]ArchiveInfo, len(archives))
	for i, a := range archives {
		a.Offset = offset
		laidOut[i] = a
		offset += a.Size()
	}
	header.Archives = laidOut

	hbuf := make([]byte, header.HeaderSize())
	encodeMetadata(hbuf, metadata)
	for i, a := range laidOut {
		encodeArchiveInfo(hbuf[metadataSize+i*archiveInfoSize:], a)
	}
	if _, err := f.Write(hbuf); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	bodySize := int64(offset - header.HeaderSize())
	if err := reserveBody(f, opts, bodySize); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	w := &Whisper{file: f, path: path, header: header, opts: opts}
	if id, idErr := fileIdentityOf(f); idErr == nil {
		w.id = id
		if opts.CacheHeaders {
			cacheHeader(id, header)
		}
	}
	applyFadvise(f, opts.FadviseRandom)
	return w, nil
}

const zeroFillChunk = 16384

func reserveBody(f *os.File, opts Options, size int64) error {
	if size == 0 {
		return nil
	}

	if opts.Sparse {
		if _, err := f.Seek(size-1, 1); err != nil {
			return err
		}
		_, err := f.Write([]byte{0})
		return err
	}

	if opts.UseFallocate && haveNativeFallocate {
		pos, err := f.Seek(0, 1)
		if err != nil {
			return err
		}
		if err := fallocateBody(f.Fd(), pos, size); err == nil {
			_, err := f.Seek(size, 1)
			return err
		}
		// fall through to zero-fill on fallocate failure
	}

	buf := make([]byte, zeroFillChunk)
	remaining := size
	for remaining > int64(len(buf)) {
		if _, err := f.Write(buf); err != nil {
			return err
		}
		remaining -= int64(len(buf))
	}
	_, err := f.Write(buf[:remaining])
	return err
}
