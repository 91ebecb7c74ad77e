package whisper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpArchiveReturnsAllSlotsChronologically(t *testing.T) {
	now := uint32(1_700_000_000)
	w, cleanup := newTestWhisperAt(t, now, []ArchiveInfo{{SecondsPerPoint: 1, Points: 5}})
	defer cleanup()

	for i := uint32(0); i < 3; i++ {
		require.NoError(t, w.Update(Point{Timestamp: now - i, Value: float64(i)}))
	}

	points, err := w.DumpArchive(1)
	require.NoError(t, err)
	require.Len(t, points, 5)

	for i := 1; i < len(points); i++ {
		require.LessOrEqual(t, points[i-1].Timestamp, points[i].Timestamp)
	}
}

func TestDumpArchiveRejectsUnknownPrecision(t *testing.T) {
	w, cleanup := newTestWhisperAt(t, 1_700_000_000, []ArchiveInfo{{SecondsPerPoint: 1, Points: 5}})
	defer cleanup()

	_, err := w.DumpArchive(60)
	require.ErrorIs(t, err, ErrUnknownArchive)
}
