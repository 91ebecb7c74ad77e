package whisper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMetadataRoundTrip(t *testing.T) {
	m := Metadata{
		AggregationMethod: Sum,
		MaxRetention:      86400,
		XFilesFactor:      0.5,
		ArchiveCount:      2,
	}
	buf := make([]byte, metadataSize)
	encodeMetadata(buf, m)

	got, err := decodeMetadata(buf)
	if err != nil {
		t.Fatalf("decodeMetadata: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("metadata round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMetadataRejectsBadAggregation(t *testing.T) {
	m := Metadata{AggregationMethod: AggregationMethod(42), XFilesFactor: 0.5, ArchiveCount: 1}
	buf := make([]byte, metadataSize)
	encodeMetadata(buf, m)
	if _, err := decodeMetadata(buf); err != errBadAggregationType {
		t.Fatalf("got %v, want errBadAggregationType", err)
	}
}

func TestDecodeMetadataRejectsBadXFF(t *testing.T) {
	m := Metadata{AggregationMethod: Average, XFilesFactor: 1.5, ArchiveCount: 1}
	buf := make([]byte, metadataSize)
	encodeMetadata(buf, m)
	if _, err := decodeMetadata(buf); err != errBadXFF {
		t.Fatalf("got %v, want errBadXFF", err)
	}
}

func TestArchiveInfoRoundTrip(t *testing.T) {
	a := ArchiveInfo{Offset: 28, SecondsPerPoint: 60, Points: 1440}
	buf := make([]byte, archiveInfoSize)
	encodeArchiveInfo(buf, a)

	got, err := decodeArchiveInfo(buf)
	if err != nil {
		t.Fatalf("decodeArchiveInfo: %v", err)
	}
	if got != a {
		t.Errorf("got %+v, want %+v", got, a)
	}
}

func TestPointRoundTrip(t *testing.T) {
	points := []Point{
		{Timestamp: 1000, Value: 3.14},
		{Timestamp: 1060, Value: -2.5},
		{Timestamp: 1120, Value: 0},
	}
	packed := packPoints(points)
	if len(packed) != len(points)*pointSize {
		t.Fatalf("packed length = %d, want %d", len(packed), len(points)*pointSize)
	}

	got, err := unpackPoints(packed)
	if err != nil {
		t.Fatalf("unpackPoints: %v", err)
	}
	if diff := cmp.Diff(points, got); diff != "" {
		t.Errorf("point round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnpackPointsRejectsShortBuffer(t *testing.T) {
	if _, err := unpackPoints(make([]byte, pointSize+1)); err != errShortBuffer {
		t.Fatalf("got %v, want errShortBuffer", err)
	}
}
