package whisper

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers should use errors.Is/errors.As against these
// rather than matching on message text.
var (
	ErrInvalidConfiguration     = errors.New("invalid archive configuration")
	ErrInvalidAggregationMethod = errors.New("invalid aggregation method")
	ErrInvalidXFilesFactor      = errors.New("invalid xFilesFactor")
	ErrInvalidTimeInterval      = errors.New("invalid time interval")
	ErrTimestampNotCovered      = errors.New("timestamp not covered by any archive in this database")
	ErrIncompatibleArchives     = errors.New("archive configurations are unalike")
	ErrUnknownArchive           = errors.New("no archive at requested precision")
)

// ErrFileExists is the file-already-exists case of InvalidConfiguration
// (spec.md's taxonomy folds it into that same kind): errors.Is matches
// both ErrFileExists itself and ErrInvalidConfiguration.
var ErrFileExists = errors.Join(ErrInvalidConfiguration, errors.New("whisper file already exists"))

// CorruptWhisperFile reports a structurally invalid header or archive
// descriptor. It carries the offending path so the caller can report it
// without re-deriving it from context.
type CorruptWhisperFile struct {
	Path   string
	Reason string
}

func (e *CorruptWhisperFile) Error() string {
	return fmt.Sprintf("%s (%s)", e.Reason, e.Path)
}

func corruptf(path, format string, args ...any) error {
	return &CorruptWhisperFile{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Internal decode-time sentinels, translated into CorruptWhisperFile once
// the caller's path is known.
var (
	errShortBuffer        = errors.New("short buffer")
	errBadAggregationType = errors.New("unknown aggregation type")
	errBadXFF             = errors.New("xFilesFactor out of range")
)
