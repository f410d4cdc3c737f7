package oasis

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDelta2RoundTrip(t *testing.T) {
	cases := []Point{{5, 0}, {-5, 0}, {0, 5}, {0, -5}, {0, 0}, {1 << 20, 0}}
	for _, p := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := WriteDelta2(w, p); err != nil {
			t.Fatalf("WriteDelta2(%+v): %v", p, err)
		}
		w.Flush()
		got, err := ReadDelta2(NewReader(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatalf("ReadDelta2(%+v): %v", p, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("round trip %+v (-want +got):\n%s", p, diff)
		}
	}
}

func TestDelta2RejectsDiagonal(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDelta2(NewWriter(&buf), Point{3, 3}); err == nil {
		t.Fatal("expected error for non-axis-aligned point")
	}
}

func TestDelta3RoundTrip(t *testing.T) {
	cases := []Point{{5, 0}, {-5, 0}, {0, 5}, {0, -5}, {4, 4}, {-4, 4}, {-4, -4}, {4, -4}}
	for _, p := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := WriteDelta3(w, p); err != nil {
			t.Fatalf("WriteDelta3(%+v): %v", p, err)
		}
		w.Flush()
		got, err := ReadDelta3(NewReader(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatalf("ReadDelta3(%+v): %v", p, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("round trip %+v (-want +got):\n%s", p, diff)
		}
	}
}

func TestGDeltaRoundTripAxisAligned(t *testing.T) {
	cases := []Point{{5, 0}, {-5, 0}, {0, 5}, {0, -5}, {0, 0}}
	for _, p := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := WriteGDelta(w, p); err != nil {
			t.Fatalf("WriteGDelta(%+v): %v", p, err)
		}
		w.Flush()
		got, err := ReadGDelta(NewReader(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatalf("ReadGDelta(%+v): %v", p, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("round trip %+v (-want +got):\n%s", p, diff)
		}
	}
}

func TestGDeltaRoundTripGeneral(t *testing.T) {
	cases := []Point{{3, 7}, {-11, 2}, {1000000, -2000000}}
	for _, p := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := WriteGDelta(w, p); err != nil {
			t.Fatalf("WriteGDelta(%+v): %v", p, err)
		}
		w.Flush()
		got, err := ReadGDelta(NewReader(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatalf("ReadGDelta(%+v): %v", p, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("round trip %+v (-want +got):\n%s", p, diff)
		}
	}
}

func TestCoordInReach(t *testing.T) {
	if !CoordInReach(0, 1000) {
		t.Error("expected small delta to be in reach")
	}
	if CoordInReach(0, int64(maxInt32)+1) {
		t.Error("expected overflowing delta to be out of reach")
	}
	if !CoordInReach(0, int64(maxInt32)) {
		t.Error("expected boundary delta to be in reach")
	}
}
