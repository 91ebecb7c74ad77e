package whisper

import (
	"path/filepath"
	"testing"
)

// newTestWhisper creates a fresh, non-sparse whisper database with the
// given archives in a temp directory and opens it for use within a
// single test. now defaults to a fixed clock so tests are deterministic.
func newTestWhisper(t *testing.T, archives []ArchiveInfo) (*Whisper, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "metric.wsp")
	opts := Options{Now: func() uint32 { return 1_700_000_000 }}

	w, err := Create(path, archives, 0.5, Average, opts)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	return w, func() { _ = w.Close() }
}

func mustOpen(t *testing.T, path string, opts Options) *Whisper {
	t.Helper()
	w, err := Open(path, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
