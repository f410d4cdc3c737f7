package oasis

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func encodeDecode(t *testing.T, rep Repetition) Repetition {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := WriteRepetition(w, rep); err != nil {
		t.Fatalf("WriteRepetition(%+v): %v", rep, err)
	}
	w.Flush()
	got, err := ReadRepetition(NewReader(bytes.NewReader(buf.Bytes())))
	if err != nil {
		t.Fatalf("ReadRepetition: %v", err)
	}
	return got
}

func TestMatrixRoundTripAndPoints(t *testing.T) {
	m := Matrix{Cols: 3, Rows: 2, ColStep: 10, RowStep: 20}
	got := encodeDecode(t, m)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	want := []Point{{0, 0}, {10, 0}, {20, 0}, {0, 20}, {10, 20}, {20, 20}}
	if diff := cmp.Diff(want, m.Points(Point{0, 0})); diff != "" {
		t.Errorf("Points (-want +got):\n%s", diff)
	}
}

func TestUniformXRoundTripAndPoints(t *testing.T) {
	u := UniformX{N: 4, Step: 5}
	got := encodeDecode(t, u)
	if diff := cmp.Diff(u, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	want := []Point{{0, 0}, {5, 0}, {10, 0}, {15, 0}}
	if diff := cmp.Diff(want, u.Points(Point{0, 0})); diff != "" {
		t.Errorf("Points (-want +got):\n%s", diff)
	}
}

func TestGridUniformYRoundTrip(t *testing.T) {
	u := GridUniformY{N: 3, Grid: 5, Step: 15}
	got := encodeDecode(t, u)
	if diff := cmp.Diff(u, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestVaryingXRoundTripAndPoints(t *testing.T) {
	v := VaryingX{Deltas: []int64{3, 7, 2}}
	got := encodeDecode(t, v)
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	want := []Point{{0, 0}, {3, 0}, {10, 0}, {12, 0}}
	if diff := cmp.Diff(want, v.Points(Point{0, 0})); diff != "" {
		t.Errorf("Points (-want +got):\n%s", diff)
	}
}

func TestGridVaryingYRoundTrip(t *testing.T) {
	v := GridVaryingY{Grid: 10, Deltas: []int64{10, 30}}
	got := encodeDecode(t, v)
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestArbitraryRoundTripAndPoints(t *testing.T) {
	a := Arbitrary{Deltas: []Point{{5, 0}, {0, 5}, {-5, -5}}}
	got := encodeDecode(t, a)
	if diff := cmp.Diff(a, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	want := []Point{{0, 0}, {5, 0}, {5, 5}, {0, 0}}
	if diff := cmp.Diff(want, a.Points(Point{0, 0})); diff != "" {
		t.Errorf("Points (-want +got):\n%s", diff)
	}
}

func TestGridArbitraryRoundTrip(t *testing.T) {
	g := GridArbitrary{Grid: 5, Deltas: []Point{{10, 0}, {0, -15}}}
	got := encodeDecode(t, g)
	if diff := cmp.Diff(g, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestDiagonalAndTiltedMatrixAreNotDecodable(t *testing.T) {
	for _, tag := range []RepetitionTag{TagDiagonal, TagTiltedMatrix} {
		var buf bytes.Buffer
		buf.WriteByte(byte(tag))
		if _, err := ReadRepetition(NewReader(bytes.NewReader(buf.Bytes()))); err == nil {
			t.Errorf("tag %d: expected a decode error", tag)
		}
	}
}
