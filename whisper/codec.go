package whisper

import (
	"encoding/binary"
	"math"
)

// encodeMetadata writes m to buf[:metadataSize] in big-endian form.
func encodeMetadata(buf []byte, m Metadata) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(m.AggregationMethod))
	binary.BigEndian.PutUint32(buf[4:8], m.MaxRetention)
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(m.XFilesFactor))
	binary.BigEndian.PutUint32(buf[12:16], m.ArchiveCount)
}

// decodeMetadata reads Metadata from buf[:metadataSize]. It rejects
// structurally impossible values (unknown aggregation type, xff outside
// [0,1]) by returning a plain error; callers attach the file path.
func decodeMetadata(buf []byte) (Metadata, error) {
	if len(buf) < metadataSize {
		return Metadata{}, errShortBuffer
	}

	m := Metadata{
		AggregationMethod: AggregationMethod(binary.BigEndian.Uint32(buf[0:4])),
		MaxRetention:      binary.BigEndian.Uint32(buf[4:8]),
		XFilesFactor:      math.Float32frombits(binary.BigEndian.Uint32(buf[8:12])),
		ArchiveCount:      binary.BigEndian.Uint32(buf[12:16]),
	}

	if !m.AggregationMethod.valid() {
		return Metadata{}, errBadAggregationType
	}
	if !validXFF(m.XFilesFactor) {
		return Metadata{}, errBadXFF
	}
	return m, nil
}

// encodeArchiveInfo writes a to buf[:archiveInfoSize].
func encodeArchiveInfo(buf []byte, a ArchiveInfo) {
	binary.BigEndian.PutUint32(buf[0:4], a.Offset)
	binary.BigEndian.PutUint32(buf[4:8], a.SecondsPerPoint)
	binary.BigEndian.PutUint32(buf[8:12], a.Points)
}

// decodeArchiveInfo reads an ArchiveInfo from buf[:archiveInfoSize].
func decodeArchiveInfo(buf []byte) (ArchiveInfo, error) {
	if len(buf) < archiveInfoSize {
		return ArchiveInfo{}, errShortBuffer
	}
	return ArchiveInfo{
		Offset:          binary.BigEndian.Uint32(buf[0:4]),
		SecondsPerPoint: binary.BigEndian.Uint32(buf[4:8]),
		Points:          binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// encodePoint writes p to buf[:pointSize].
func encodePoint(buf []byte, p Point) {
	binary.BigEndian.PutUint32(buf[0:4], p.Timestamp)
	binary.BigEndian.PutUint64(buf[4:12], math.Float64bits(p.Value))
}

// decodePoint reads a Point from buf[:pointSize].
func decodePoint(buf []byte) Point {
	return Point{
		Timestamp: binary.BigEndian.Uint32(buf[0:4]),
		Value:     math.Float64frombits(binary.BigEndian.Uint64(buf[4:12])),
	}
}

// packPoints encodes points into a contiguous byte buffer in order.
func packPoints(points []Point) []byte {
	buf := make([]byte, len(points)*pointSize)
	for i, p := range points {
		encodePoint(buf[i*pointSize:], p)
	}
	return buf
}

// unpackPoints decodes a contiguous byte buffer into a Point slice. buf's
// length must be a multiple of pointSize; callers only ever pass buffers
// read back from an archive's byte extent, so this never fails structurally
// in practice, but we check defensively.
func unpackPoints(buf []byte) ([]Point, error) {
	if len(buf)%pointSize != 0 {
		return nil, errShortBuffer
	}
	n := len(buf) / pointSize
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = decodePoint(buf[i*pointSize:])
	}
	return points, nil
}

func validXFF(xff float32) bool {
	return !math.IsNaN(float64(xff)) && !math.IsInf(float64(xff), 0) && xff >= 0 && xff <= 1
}
