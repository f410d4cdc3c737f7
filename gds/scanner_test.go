package gds

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/icflow/layoutfmt/byteio"
)

func writeSampleLibrary(t *testing.T, w *Writer) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(w.WriteShort(HEADER, []int16{600}))
	must(w.WriteShort(BGNLIB, make([]int16, 12)))
	must(w.WriteString(LIBNAME, "TESTLIB"))
	must(w.WriteDouble(UNITS, []float64{0.001, 1e-9}))
	must(w.WriteShort(BGNSTR, make([]int16, 12)))
	must(w.WriteString(STRNAME, "TOP"))
	must(w.WriteNone(BOUNDARY))
	must(w.WriteShort(LAYER, []int16{1}))
	must(w.WriteShort(DATATYPE, []int16{0}))
	must(w.WriteInt(XY, []int32{0, 0, 0, 100, 100, 100, 100, 0, 0, 0}))
	must(w.WriteNone(ENDEL))
	must(w.WriteNone(ENDSTR))
	must(w.WriteNone(ENDLIB))
}

func TestScannerWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gds")

	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter(wf)
	writeSampleLibrary(t, w)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := byteio.Open(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	s := NewScanner(rf)

	var types []RecordType
	for {
		rec, err := s.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		types = append(types, rec.Type)
	}

	want := []RecordType{HEADER, BGNLIB, LIBNAME, UNITS, BGNSTR, STRNAME,
		BOUNDARY, LAYER, DATATYPE, XY, ENDEL, ENDSTR, ENDLIB}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("record type sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerRejectsInvalidType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.gds")
	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	// SPACING (24) is reserved/invalid; hand-craft a 4-byte record header.
	if _, err := wf.Write([]byte{0x00, 0x04, 24, 0}); err != nil {
		t.Fatal(err)
	}
	if err := wf.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := byteio.Open(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	s := NewScanner(rf)
	if _, err := s.Record(); err == nil {
		t.Fatal("expected error scanning a reserved record type")
	}
}

func TestScannerRejectsBadXYLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badxy.gds")
	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	// XY body must be a multiple of 8; 6 bytes of body is invalid.
	body := make([]byte, 6)
	rec := append([]byte{0x00, 0x0a, byte(XY), 3}, body...)
	if _, err := wf.Write(rec); err != nil {
		t.Fatal(err)
	}
	if err := wf.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := byteio.Open(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	s := NewScanner(rf)
	if _, err := s.Record(); err == nil {
		t.Fatal("expected error scanning an XY record with a non-multiple-of-8 body")
	}
}

func TestScannerSeekWithinBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.gds")
	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter(wf)
	writeSampleLibrary(t, w)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := byteio.Open(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	s := NewScanner(rf)

	first, err := s.Record()
	if err != nil {
		t.Fatal(err)
	}
	if first.Type != HEADER {
		t.Fatalf("first record = %v, want HEADER", first.Type)
	}
	offsetAfterHeader := s.Offset()

	// advance, then seek back within the already-buffered window
	if _, err := s.Record(); err != nil {
		t.Fatal(err)
	}
	if err := s.Seek(offsetAfterHeader); err != nil {
		t.Fatal(err)
	}
	second, err := s.Record()
	if err != nil {
		t.Fatal(err)
	}
	if second.Type != BGNLIB {
		t.Fatalf("record after seek = %v, want BGNLIB", second.Type)
	}
}
