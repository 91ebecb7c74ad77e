package whisper

import "sort"

// Update writes a single datapoint, selecting whichever archive is the
// finest one that still covers the point's age, then propagates the
// result into the coarser archives in turn, stopping at the first one
// that has nothing to propagate.
func (w *Whisper) Update(point Point) error {
	return w.withLock(func() error {
		return w.update(point)
	})
}

func (w *Whisper) update(point Point) error {
	now := w.opts.now()
	if now < point.Timestamp {
		return ErrInvalidTimeInterval
	}
	age := now - point.Timestamp

	idx, ok := w.archiveIndexForAge(age)
	if !ok {
		return ErrTimestampNotCovered
	}
	archive := w.header.Archives[idx]

	point.Timestamp -= point.Timestamp % archive.SecondsPerPoint
	if err := w.writePoint(archive, point); err != nil {
		return err
	}

	return w.propagateChain(idx, point.Timestamp)
}

// archiveIndexForAge returns the index of the finest archive whose
// retention still covers a point of the given age.
func (w *Whisper) archiveIndexForAge(age uint32) (int, bool) {
	for i, a := range w.header.Archives {
		if a.Retention() >= age {
			return i, true
		}
	}
	return 0, false
}

// UpdateMany writes a batch of points, which may span several archives
// and may arrive in any order. Points older than the database's
// MaxRetention are dropped; points are otherwise routed to the finest
// archive that covers their age.
func (w *Whisper) UpdateMany(points []Point) error {
	return w.withLock(func() error {
		return w.updateMany(points)
	})
}

func (w *Whisper) updateMany(points []Point) error {
	now := w.opts.now()

	byArchive := make(map[int][]Point)
	for _, p := range points {
		if now < p.Timestamp {
			continue
		}
		idx, ok := w.archiveIndexForAge(now - p.Timestamp)
		if !ok {
			continue
		}
		byArchive[idx] = append(byArchive[idx], p)
	}

	for idx := len(w.header.Archives) - 1; idx >= 0; idx-- {
		pts, ok := byArchive[idx]
		if !ok || len(pts) == 0 {
			continue
		}
		if err := w.archiveUpdateMany(idx, pts); err != nil {
			return err
		}
	}
	return nil
}

// archiveUpdateMany implements steps (a)-(c) of the bulk write
// algorithm for a batch already routed to one archive. The sort that
// orders the batch newest-first is keyed on each point's raw,
// unaligned timestamp -- matching whisper.py's single global
// `points.sort(key=lambda p: p[0], reverse=True)` -- not on the
// aligned timestamp; since alignment is monotonic in the raw
// timestamp, every run of points sharing an aligned slot is already
// contiguous in that order, so scanning for "the next point whose
// aligned slot differs" and keeping it discards every other duplicate
// in the run and keeps the raw-oldest one. Among points with the same
// raw timestamp the stable sort keeps input order, so the one submitted
// last is the one kept. The deduplicated points are
// reversed into chronological order and handed to commitPoints for
// steps (d)-(f).
func (w *Whisper) archiveUpdateMany(idx int, points []Point) error {
	archive := w.header.Archives[idx]
	step := archive.SecondsPerPoint

	ordered := make([]Point, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp > ordered[j].Timestamp
	})

	aligned := make([]Point, len(ordered))
	for i, p := range ordered {
		aligned[i] = Point{Timestamp: p.Timestamp - p.Timestamp%step, Value: p.Value}
	}

	deduped := make([]Point, 0, len(aligned))
	for i, p := range aligned {
		if i+1 < len(aligned) && aligned[i+1].Timestamp == p.Timestamp {
			continue
		}
		deduped = append(deduped, p)
	}

	for i, j := 0, len(deduped)-1; i < j; i, j = i+1, j-1 {
		deduped[i], deduped[j] = deduped[j], deduped[i]
	}

	return w.commitPoints(idx, deduped)
}

// commitPoints implements steps (d)-(f): group an ascending,
// timestamp-deduplicated run of points into maximal contiguous runs at
// the archive's resolution, write each run with a single wrap-aware
// write, then propagate every written timestamp into coarser archives.
// Both the bulk-update path (via archiveUpdateMany) and Merge (which
// already has clean ascending, deduplicated points straight from Fetch)
// call this directly.
func (w *Whisper) commitPoints(idx int, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	archive := w.header.Archives[idx]
	step := archive.SecondsPerPoint

	runStart := 0
	for i := 1; i <= len(points); i++ {
		if i < len(points) && points[i].Timestamp == points[i-1].Timestamp+step {
			continue
		}
		run := points[runStart:i]
		if err := w.writePoints(archive, run[0].Timestamp, run); err != nil {
			return err
		}
		runStart = i
	}

	for _, p := range points {
		if err := w.propagateChain(idx, p.Timestamp); err != nil {
			return err
		}
	}
	return nil
}
