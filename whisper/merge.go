package whisper

// Merge copies every known point from src into dst; where both hold a
// point at the same timestamp, src's value overwrites dst's. The two
// databases must share the same archive
// configuration (same precisions and point counts), so each src
// archive is written straight into the identically-indexed dst archive
// via commitPoints -- the bulk writer's per-archive commit path -- with
// no rerouting by age the way UpdateMany would do; only that archive's
// own natural propagation cascade follows the write.
func Merge(dst, src *Whisper) error {
	if len(dst.header.Archives) != len(src.header.Archives) {
		return ErrIncompatibleArchives
	}
	for i, a := range src.header.Archives {
		b := dst.header.Archives[i]
		if a.SecondsPerPoint != b.SecondsPerPoint || a.Points != b.Points {
			return ErrIncompatibleArchives
		}
	}

	return dst.withLock(func() error {
		now := dst.opts.now()
		until := now

		for i, archive := range src.header.Archives {
			var from uint32
			if retention := archive.Retention(); retention < now {
				from = now - retention
			}

			series, err := src.fetchFromArchive(archive, from, until)
			if err != nil {
				return err
			}

			points := seriesToPoints(series)
			if len(points) > 0 {
				if err := dst.commitPoints(i, points); err != nil {
					return err
				}
			}

			until = from
		}
		return nil
	})
}

// seriesToPoints collapses a dense, nil-padded TimeSeries into the
// sparse, ascending (timestamp, value) pairs it actually holds.
func seriesToPoints(series TimeSeries) []Point {
	points := make([]Point, 0, len(series.Values))
	ts := series.From
	for _, v := range series.Values {
		if v != nil {
			points = append(points, Point{Timestamp: ts, Value: *v})
		}
		ts += series.Step
	}
	return points
}
