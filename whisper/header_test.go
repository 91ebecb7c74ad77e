package whisper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderCacheSurvivesCloseAndReopen(t *testing.T) {
	now := uint32(1_700_000_000)
	path := tempPath(t, "m.wsp")
	opts := Options{Now: func() uint32 { return now }, CacheHeaders: true}

	w, err := Create(path, []ArchiveInfo{{SecondsPerPoint: 1, Points: 10}}, 0.5, Average, opts)
	require.NoError(t, err)
	id := w.id
	require.NoError(t, w.Close())

	cached, ok := cachedHeader(id)
	require.True(t, ok)
	require.Equal(t, uint32(1), cached.Metadata.ArchiveCount)

	reopened := mustOpen(t, path, opts)
	defer reopened.Close()
	require.Equal(t, id, reopened.id)
}

func TestHeaderCacheUpdatesOnMutation(t *testing.T) {
	now := uint32(1_700_000_000)
	path := tempPath(t, "m.wsp")
	opts := Options{Now: func() uint32 { return now }, CacheHeaders: true}

	w, err := Create(path, []ArchiveInfo{{SecondsPerPoint: 1, Points: 10}}, 0.5, Average, opts)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.SetAggregationMethod(Sum, nil)
	require.NoError(t, err)

	cached, ok := cachedHeader(w.id)
	require.True(t, ok)
	require.Equal(t, Sum, cached.Metadata.AggregationMethod)
}
