package whisper

import (
	"sort"

	"github.com/edsrzf/mmap-go"
)

// DumpArchive returns every point physically stored in the archive at
// the given precision, in chronological order, including the zero
// (Timestamp: 0) slots that have never been written. It memory-maps the
// file for the duration of the call rather than issuing one ReadAt per
// point, since a dump walks the entire archive body regardless of how
// sparsely it's populated.
func (w *Whisper) DumpArchive(precision uint32) ([]Point, error) {
	archive, ok := w.header.ArchiveForPrecision(precision)
	if !ok {
		return nil, ErrUnknownArchive
	}

	m, err := mmap.MapRegion(w.file, int(archive.End()), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	body := []byte(m[archive.Offset:archive.End()])
	points, err := unpackPoints(body)
	if err != nil {
		return nil, corruptf(w.path, "%v", err)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	return points, nil
}
