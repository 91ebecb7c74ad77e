package whisper

// PointDiff is one timestamp where two databases disagree (or one has a
// value the other lacks).
type PointDiff struct {
	Timestamp uint32
	A, B      *float64
}

// ArchiveDiff holds the disagreements found within one archive
// precision: its index in ascending-retention order, every
// disagreeing point, and how many points were actually compared (after
// skipping the empty positions that Diff's ignoreEmpty rule excludes).
type ArchiveDiff struct {
	ArchiveIndex    int
	SecondsPerPoint uint32
	Points          []PointDiff
	TotalCompared   int
}

// Diff compares a and b archive-by-archive, from finest to coarsest,
// reporting every timestamp where the two disagree. untilTime bounds
// the comparison window the way the operations surface's `until`
// parameter does; zero means now. ignoreEmpty controls which positions
// count at all: set, a position where either side is null is skipped
// entirely; unset, a position is skipped only when both sides are
// null (so a value on one side and a gap on the other still counts as
// a disagreement). Each archive's scan is bounded above by the
// previous (finer) archive's start time, so a timestamp covered by
// more than one archive is only ever compared once -- the finer
// archive's verdict wins and the coarser archive's window is ratcheted
// back before it is read.
func Diff(a, b *Whisper, ignoreEmpty bool, untilTime uint32) ([]ArchiveDiff, error) {
	if len(a.header.Archives) != len(b.header.Archives) {
		return nil, ErrIncompatibleArchives
	}
	for i, ai := range a.header.Archives {
		bi := b.header.Archives[i]
		if ai.SecondsPerPoint != bi.SecondsPerPoint || ai.Points != bi.Points {
			return nil, ErrIncompatibleArchives
		}
	}

	now := a.opts.now()
	windowUntil := untilTime
	if windowUntil == 0 {
		windowUntil = now
	}

	var diffs []ArchiveDiff
	for idx, archive := range a.header.Archives {
		var startTime uint32
		if retention := archive.Retention(); retention < now {
			startTime = now - retention
		}

		sa, err := a.fetchFromArchive(archive, startTime, windowUntil)
		if err != nil {
			return nil, err
		}
		sb, err := b.fetchFromArchive(archive, startTime, windowUntil)
		if err != nil {
			return nil, err
		}

		ad := ArchiveDiff{ArchiveIndex: idx, SecondsPerPoint: archive.SecondsPerPoint}
		n := len(sa.Values)
		if len(sb.Values) < n {
			n = len(sb.Values)
		}
		ts := sa.From
		for i := 0; i < n; i++ {
			va, vb := sa.Values[i], sb.Values[i]

			skip := va == nil && vb == nil
			if ignoreEmpty {
				skip = va == nil || vb == nil
			}
			if !skip {
				ad.TotalCompared++
				if !floatPtrEqual(va, vb) {
					ad.Points = append(ad.Points, PointDiff{Timestamp: ts, A: va, B: vb})
				}
			}
			ts += sa.Step
		}
		diffs = append(diffs, ad)

		if startTime < windowUntil {
			windowUntil = startTime
		}
	}

	return diffs, nil
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
