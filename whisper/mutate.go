package whisper

// SetAggregationMethod changes the propagation aggregation method
// recorded in the file's metadata and returns the value it replaced.
// If xff is non-nil, XFilesFactor is replaced in the same metadata
// rewrite; nil leaves it untouched.
func (w *Whisper) SetAggregationMethod(method AggregationMethod, xff *float32) (AggregationMethod, error) {
	if !method.valid() {
		return 0, ErrInvalidAggregationMethod
	}
	if xff != nil && !validXFF(*xff) {
		return 0, ErrInvalidXFilesFactor
	}

	prevMethod := w.header.Metadata.AggregationMethod
	prevXFF := w.header.Metadata.XFilesFactor
	err := w.withLock(func() error {
		w.header.Metadata.AggregationMethod = method
		if xff != nil {
			w.header.Metadata.XFilesFactor = *xff
		}
		return w.writeMetadata()
	})
	if err != nil {
		w.header.Metadata.AggregationMethod = prevMethod
		w.header.Metadata.XFilesFactor = prevXFF
		return 0, err
	}
	return prevMethod, nil
}

// SetXFilesFactor changes the minimum-known-fraction gate used during
// propagation and returns the value it replaced.
func (w *Whisper) SetXFilesFactor(xff float32) (float32, error) {
	if !validXFF(xff) {
		return 0, ErrInvalidXFilesFactor
	}
	prev := w.header.Metadata.XFilesFactor
	err := w.withLock(func() error {
		w.header.Metadata.XFilesFactor = xff
		return w.writeMetadata()
	})
	if err != nil {
		w.header.Metadata.XFilesFactor = prev
		return 0, err
	}
	return prev, nil
}
