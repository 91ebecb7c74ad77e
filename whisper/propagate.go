package whisper

// propagate folds the higher-resolution archive's points covering one
// lower-resolution interval into a single aggregate point and writes it
// into lower. It reports whether enough of the interval was known to
// write anything at all, so callers can stop walking the archive chain
// as soon as one level has nothing to propagate further.
func (w *Whisper) propagate(timestamp uint32, higher, lower ArchiveInfo) (bool, error) {
	lowerIntervalStart := timestamp - (timestamp % lower.SecondsPerPoint)

	higherBase, err := w.readBaseInterval(higher)
	if err != nil {
		return false, err
	}
	higherFirstOffset := pointSlotOffset(higher, higherBase, lowerIntervalStart)

	numHigherPoints := lower.SecondsPerPoint / higher.SecondsPerPoint
	higherPointsSize := numHigherPoints * pointSize

	relativeFirstOffset := higherFirstOffset - higher.Offset
	relativeLastOffset := (relativeFirstOffset + higherPointsSize) % higher.Size()
	higherLastOffset := relativeLastOffset + higher.Offset

	raw, err := w.readRange(higher, higherFirstOffset, higherLastOffset)
	if err != nil {
		return false, err
	}
	points, err := unpackPoints(raw)
	if err != nil {
		return false, corruptf(w.path, "%v", err)
	}

	neighbors := make([]*float64, numHigherPoints)
	var known []float64
	currentInterval := lowerIntervalStart
	for i, p := range points {
		if i >= len(neighbors) {
			break
		}
		if p.Timestamp == currentInterval {
			v := p.Value
			neighbors[i] = &v
			known = append(known, v)
		}
		currentInterval += higher.SecondsPerPoint
	}

	if len(known) == 0 {
		return false, nil
	}
	if float32(len(known))/float32(len(neighbors)) < w.header.Metadata.XFilesFactor {
		return false, nil
	}

	value, err := aggregate(w.header.Metadata.AggregationMethod, known, neighbors)
	if err != nil {
		return false, err
	}

	if err := w.writePoint(lower, Point{Timestamp: lowerIntervalStart, Value: value}); err != nil {
		return false, err
	}

	return true, nil
}

// propagateChain walks archives coarser than from, starting from a
// single just-written timestamp, propagating until an archive reports
// nothing to do.
func (w *Whisper) propagateChain(fromIndex int, timestamp uint32) error {
	higher := w.header.Archives[fromIndex]
	for i := fromIndex + 1; i < len(w.header.Archives); i++ {
		lower := w.header.Archives[i]
		ok, err := w.propagate(timestamp, higher, lower)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		higher = lower
	}
	return nil
}
