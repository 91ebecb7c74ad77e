package whisper

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArchiveListRejectsEmpty(t *testing.T) {
	err := ValidateArchiveList(nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestValidateArchiveListRejectsDuplicatePrecision(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 60, Points: 1440},
		{SecondsPerPoint: 60, Points: 10080},
	}
	assert.ErrorIs(t, ValidateArchiveList(archives), ErrInvalidConfiguration)
}

func TestValidateArchiveListRejectsNonDivisiblePrecision(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 60, Points: 1440},
		{SecondsPerPoint: 90, Points: 1000},
	}
	assert.ErrorIs(t, ValidateArchiveList(archives), ErrInvalidConfiguration)
}

func TestValidateArchiveListRejectsShorterCoarseRetention(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 60, Points: 1440},   // 86400s
		{SecondsPerPoint: 120, Points: 700}, // 84000s < 86400s
	}
	assert.ErrorIs(t, ValidateArchiveList(archives), ErrInvalidConfiguration)
}

func TestValidateArchiveListRejectsInsufficientConsolidationPoints(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 60, Points: 5},
		{SecondsPerPoint: 600, Points: 1000},
	}
	assert.ErrorIs(t, ValidateArchiveList(archives), ErrInvalidConfiguration)
}

func TestValidateArchiveListAccepts(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 1, Points: 60},
		{SecondsPerPoint: 60, Points: 1440},
		{SecondsPerPoint: 3600, Points: 48},
	}
	require.NoError(t, ValidateArchiveList(archives))
}

func TestCreateLaysOutHeaderAndBody(t *testing.T) {
	path := tempPath(t, "a.wsp")
	archives := []ArchiveInfo{
		{SecondsPerPoint: 1, Points: 10},
		{SecondsPerPoint: 10, Points: 10},
	}

	w, err := Create(path, archives, 0.5, Average, Options{})
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, uint32(2), w.header.Metadata.ArchiveCount)
	require.Equal(t, uint32(100), w.header.Metadata.MaxRetention)

	// Second archive's offset starts right after the first archive's body.
	want := w.header.HeaderSize() + archives[0].Points*pointSize
	assert.Equal(t, want, w.header.Archives[1].Offset)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(w.header.FileSize()), info.Size())
}

func TestCreateRejectsExistingFile(t *testing.T) {
	path := tempPath(t, "a.wsp")
	archives := []ArchiveInfo{{SecondsPerPoint: 1, Points: 10}}

	w, err := Create(path, archives, 0.5, Average, Options{})
	require.NoError(t, err)
	w.Close()

	_, err = Create(path, archives, 0.5, Average, Options{})
	assert.ErrorIs(t, err, ErrFileExists)
}

func TestCreateRejectsBadXFF(t *testing.T) {
	archives := []ArchiveInfo{{SecondsPerPoint: 1, Points: 10}}
	_, err := Create(tempPath(t, "a.wsp"), archives, 2.0, Average, Options{})
	assert.ErrorIs(t, err, ErrInvalidXFilesFactor)
}

func TestCreateSparseAndFullReserveSameSize(t *testing.T) {
	archives := []ArchiveInfo{{SecondsPerPoint: 1, Points: 1000}}

	sparsePath := tempPath(t, "sparse.wsp")
	sw, err := Create(sparsePath, archives, 0.5, Average, Options{Sparse: true})
	require.NoError(t, err)
	sw.Close()

	fullPath := tempPath(t, "full.wsp")
	fw, err := Create(fullPath, archives, 0.5, Average, Options{Sparse: false})
	require.NoError(t, err)
	fw.Close()

	si, err := os.Stat(sparsePath)
	require.NoError(t, err)
	fi, err := os.Stat(fullPath)
	require.NoError(t, err)
	assert.Equal(t, fi.Size(), si.Size())
}
