package whisper

// TimeSeries is the result of a Fetch: a dense, evenly-spaced run of
// values from from (inclusive) to until (exclusive) at the given step,
// with gaps represented as a nil Values entry.
type TimeSeries struct {
	From   uint32
	Until  uint32
	Step   uint32
	Values []*float64
}

// Fetch returns the archived values of the slots whose start time lies
// in (from, until]: both bounds are aligned up to the next step
// boundary of the chosen archive, and a window that would come out
// empty is widened by one step. until
// defaults to now when zero. A request entirely outside the database's
// coverage -- from in the future, or until older than MaxRetention --
// reports no data: (nil, nil), not an error. Otherwise from and until
// are clamped into [now-MaxRetention, now] and the finest archive whose
// retention covers from is chosen.
func (w *Whisper) Fetch(from, until uint32) (*TimeSeries, error) {
	now := w.opts.now()
	if until == 0 {
		until = now
	}
	if from > until {
		return nil, ErrInvalidTimeInterval
	}
	if from > now {
		return nil, nil
	}

	var oldest uint32
	if w.header.Metadata.MaxRetention < now {
		oldest = now - w.header.Metadata.MaxRetention
	}
	if until < oldest {
		return nil, nil
	}

	if from < oldest {
		from = oldest
	}
	if until > now {
		until = now
	}

	idx, ok := w.archiveIndexForAge(now - from)
	if !ok {
		return nil, ErrTimestampNotCovered
	}

	series, err := w.fetchFromArchive(w.header.Archives[idx], from, until)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (w *Whisper) fetchFromArchive(archive ArchiveInfo, from, until uint32) (TimeSeries, error) {
	step := archive.SecondsPerPoint

	fromInterval := from - from%step + step
	untilInterval := until - until%step + step
	if fromInterval == untilInterval {
		untilInterval += step
	}

	baseInterval, err := w.readBaseInterval(archive)
	if err != nil {
		return TimeSeries{}, err
	}
	if baseInterval == 0 {
		points := make([]*float64, (untilInterval-fromInterval)/step)
		return TimeSeries{From: fromInterval, Until: untilInterval, Step: step, Values: points}, nil
	}

	fromOffset := pointSlotOffset(archive, baseInterval, fromInterval)
	untilOffset := pointSlotOffset(archive, baseInterval, untilInterval)

	raw, err := w.readRange(archive, fromOffset, untilOffset)
	if err != nil {
		return TimeSeries{}, err
	}
	rawPoints, err := unpackPoints(raw)
	if err != nil {
		return TimeSeries{}, corruptf(w.path, "%v", err)
	}

	n := (untilInterval - fromInterval) / step
	values := make([]*float64, n)
	for i, p := range rawPoints {
		if p.Timestamp == 0 {
			continue
		}
		slot := (p.Timestamp - fromInterval) / step
		if int(slot) < 0 || int(slot) >= len(values) {
			continue
		}
		v := p.Value
		values[slot] = &v
	}

	return TimeSeries{From: fromInterval, Until: untilInterval, Step: step, Values: values}, nil
}
