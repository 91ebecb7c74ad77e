package whisper

// loadHeader reads the header from disk, or from the process-wide cache
// when Options.CacheHeaders is set and this file's identity is already
// known. The cache is only ever consulted here, on Open; every mutating
// operation keeps w.header in sync in memory and re-caches it itself, so
// a second Open of the same underlying inode sees the latest state.
func (w *Whisper) loadHeader() (Header, error) {
	if w.opts.CacheHeaders && w.id != (fileIdentity{}) {
		if h, ok := cachedHeader(w.id); ok {
			return h, nil
		}
	}

	h, err := w.readHeaderFromDisk()
	if err != nil {
		return Header{}, err
	}

	if w.opts.CacheHeaders && w.id != (fileIdentity{}) {
		cacheHeader(w.id, h)
	}

	return h, nil
}

// readHeaderFromDisk decodes the Metadata and ArchiveInfo list directly
// from the start of the file, independent of any cache.
func (w *Whisper) readHeaderFromDisk() (Header, error) {
	mbuf := make([]byte, metadataSize)
	if _, err := w.file.ReadAt(mbuf, 0); err != nil {
		return Header{}, err
	}
	metadata, err := decodeMetadata(mbuf)
	if err != nil {
		return Header{}, corruptf(w.path, "%v", err)
	}

	archives := make([]ArchiveInfo, metadata.ArchiveCount)
	abuf := make([]byte, archiveInfoSize*metadata.ArchiveCount)
	if len(abuf) > 0 {
		if _, err := w.file.ReadAt(abuf, int64(metadataSize)); err != nil {
			return Header{}, err
		}
	}
	for i := range archives {
		a, err := decodeArchiveInfo(abuf[i*archiveInfoSize:])
		if err != nil {
			return Header{}, corruptf(w.path, "%v", err)
		}
		archives[i] = a
	}

	return Header{Metadata: metadata, Archives: archives}, nil
}

// syncHeaderCache copies w.header into the shared cache entry for this
// file's identity, if caching is enabled. Call after any mutation
// to the in-memory header (SetAggregationMethod, SetXFilesFactor).
func (w *Whisper) syncHeaderCache() {
	if w.opts.CacheHeaders && w.id != (fileIdentity{}) {
		cacheHeader(w.id, w.header)
	}
}

// writeMetadata persists w.header.Metadata to the start of the file.
func (w *Whisper) writeMetadata() error {
	buf := make([]byte, metadataSize)
	encodeMetadata(buf, w.header.Metadata)
	if _, err := w.file.WriteAt(buf, 0); err != nil {
		return err
	}
	w.syncHeaderCache()
	return nil
}
