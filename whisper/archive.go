package whisper

// Ring-buffer offset arithmetic and the two Archive I/O primitives
// (contiguous read, wrap-aware write). All addressing is integer, in
// bytes, relative to archive.Offset; no floating point ever enters here.

// floorDiv and floorMod give floor division (the quotient rounds toward
// negative infinity and the remainder takes the divisor's sign),
// matching Python's // and % for the mixed-sign distances that
// show up when a requested timestamp precedes an archive's base interval.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// pointSlotOffset returns the absolute byte offset within the file where
// timestamp's point lives in archive, given the archive's current base
// interval (the timestamp stored at archive.Offset, 0 if never written).
func pointSlotOffset(archive ArchiveInfo, baseInterval, timestamp uint32) uint32 {
	if baseInterval == 0 {
		return archive.Offset
	}
	timeDistance := int64(timestamp) - int64(baseInterval)
	pointDistance := floorDiv(timeDistance, int64(archive.SecondsPerPoint))
	byteDistance := pointDistance * int64(pointSize)
	return archive.Offset + uint32(floorMod(byteDistance, int64(archive.Size())))
}

// readBaseInterval reads the timestamp stored in archive's slot 0 (the
// slot at archive.Offset, not necessarily the chronologically-first
// point once the ring has wrapped).
func (w *Whisper) readBaseInterval(archive ArchiveInfo) (uint32, error) {
	buf := make([]byte, pointSize)
	if _, err := w.file.ReadAt(buf, int64(archive.Offset)); err != nil {
		return 0, err
	}
	return decodePoint(buf).Timestamp, nil
}

// readRange returns the raw bytes in the half-open byte interval
// [fromOffset, untilOffset) within archive's extent, wrapping around the
// end of the archive when fromOffset >= untilOffset.
func (w *Whisper) readRange(archive ArchiveInfo, fromOffset, untilOffset uint32) ([]byte, error) {
	if fromOffset < untilOffset {
		buf := make([]byte, untilOffset-fromOffset)
		if _, err := w.file.ReadAt(buf, int64(fromOffset)); err != nil {
			return nil, err
		}
		return buf, nil
	}

	archiveEnd := archive.End()
	tailLen := archiveEnd - fromOffset
	headLen := untilOffset - archive.Offset
	buf := make([]byte, tailLen+headLen)

	if tailLen > 0 {
		if _, err := w.file.ReadAt(buf[:tailLen], int64(fromOffset)); err != nil {
			return nil, err
		}
	}
	if headLen > 0 {
		if _, err := w.file.ReadAt(buf[tailLen:], int64(archive.Offset)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// writeWrapped writes bytes starting at targetOffset within archive,
// splitting into a tail write followed by a head write that wraps to
// archive.Offset if the write would cross archive.End(). len(bytes) must
// not exceed archive.Size(); callers enforce this.
func (w *Whisper) writeWrapped(archive ArchiveInfo, targetOffset uint32, data []byte) error {
	archiveEnd := archive.End()
	spaceToEnd := archiveEnd - targetOffset

	if uint32(len(data)) <= spaceToEnd {
		_, err := w.file.WriteAt(data, int64(targetOffset))
		return err
	}

	if _, err := w.file.WriteAt(data[:spaceToEnd], int64(targetOffset)); err != nil {
		return err
	}
	_, err := w.file.WriteAt(data[spaceToEnd:], int64(archive.Offset))
	return err
}

// writePoint writes a single point into archive at its ring-buffer slot,
// deriving the slot from the archive's current base interval.
func (w *Whisper) writePoint(archive ArchiveInfo, p Point) error {
	return w.writePoints(archive, p.Timestamp, []Point{p})
}

// writePoints writes a contiguous run of points (already aligned and in
// chronological order) starting logically at startTimestamp. The slot is
// computed once from startTimestamp; the run is assumed contiguous at
// archive.SecondsPerPoint spacing so the remaining points land in the
// following slots automatically via the wrap-aware write.
func (w *Whisper) writePoints(archive ArchiveInfo, startTimestamp uint32, points []Point) error {
	if uint32(len(points)) > archive.Points {
		return ErrInvalidConfiguration
	}
	baseInterval, err := w.readBaseInterval(archive)
	if err != nil {
		return err
	}
	offset := pointSlotOffset(archive, baseInterval, startTimestamp)
	return w.writeWrapped(archive, offset, packPoints(points))
}
