package whisper

// Fixed on-disk field sizes. All integers and floats are big-endian.
const (
	metadataSize    = 16
	archiveInfoSize = 12
	pointSize       = 12
)

// AggregationMethod selects how several fine-resolution values combine into
// one coarse-resolution value during propagation. The numeric values are the
// on-disk encoding and must not be renumbered.
type AggregationMethod uint32

// Valid aggregation methods.
const (
	Average AggregationMethod = 1
	Sum     AggregationMethod = 2
	Last    AggregationMethod = 3
	Max     AggregationMethod = 4
	Min     AggregationMethod = 5
	AvgZero AggregationMethod = 6
	AbsMax  AggregationMethod = 7
	AbsMin  AggregationMethod = 8
)

func (m AggregationMethod) valid() bool {
	return m >= Average && m <= AbsMin
}

func (m AggregationMethod) String() string {
	switch m {
	case Average:
		return "average"
	case Sum:
		return "sum"
	case Last:
		return "last"
	case Max:
		return "max"
	case Min:
		return "min"
	case AvgZero:
		return "avg_zero"
	case AbsMax:
		return "absmax"
	case AbsMin:
		return "absmin"
	default:
		return "unknown"
	}
}

// Metadata is the 16-byte file header preceding the archive descriptors.
type Metadata struct {
	AggregationMethod AggregationMethod
	MaxRetention      uint32
	XFilesFactor      float32
	ArchiveCount      uint32
}

// ArchiveInfo describes one ring-buffer archive within the file.
type ArchiveInfo struct {
	Offset          uint32
	SecondsPerPoint uint32
	Points          uint32
}

// Retention returns the total span in seconds this archive covers.
func (a ArchiveInfo) Retention() uint32 { return a.SecondsPerPoint * a.Points }

// Size returns the archive's byte extent.
func (a ArchiveInfo) Size() uint32 { return a.Points * pointSize }

// End returns the absolute byte offset just past this archive.
func (a ArchiveInfo) End() uint32 { return a.Offset + a.Size() }

// Point is a single 12-byte (timestamp, value) sample.
type Point struct {
	Timestamp uint32
	Value     float64
}

// Header is the fully decoded file header: metadata plus archive list,
// ordered ascending by SecondsPerPoint.
type Header struct {
	Metadata Metadata
	Archives []ArchiveInfo
}

// HeaderSize returns the byte size of Metadata plus all ArchiveInfo entries.
func (h Header) HeaderSize() uint32 {
	return metadataSize + archiveInfoSize*uint32(len(h.Archives))
}

// FileSize returns the total expected file size for this header: the header
// plus every archive's body.
func (h Header) FileSize() uint32 {
	size := h.HeaderSize()
	for _, a := range h.Archives {
		size += a.Size()
	}
	return size
}

// ArchiveForPrecision returns the archive whose SecondsPerPoint matches
// precision, and true if found.
func (h Header) ArchiveForPrecision(precision uint32) (ArchiveInfo, bool) {
	for _, a := range h.Archives {
		if a.SecondsPerPoint == precision {
			return a, true
		}
	}
	return ArchiveInfo{}, false
}
