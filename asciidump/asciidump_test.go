package asciidump

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
)

func writeSample(t *testing.T, path string) {
	t.Helper()
	wf, err := byteio.Create(path, byteio.Normal)
	must(t, err)
	w := gds.NewWriter(wf)
	must(t, w.WriteShort(gds.HEADER, []int16{600}))
	must(t, w.WriteShort(gds.BGNLIB, make([]int16, 12)))
	must(t, w.WriteString(gds.LIBNAME, "LIB"))
	must(t, w.WriteDouble(gds.UNITS, []float64{1e-3, 1e-9}))

	must(t, w.WriteShort(gds.BGNSTR, make([]int16, 12)))
	must(t, w.WriteString(gds.STRNAME, "TOP"))
	must(t, w.WriteNone(gds.BOUNDARY))
	must(t, w.WriteShort(gds.LAYER, []int16{1}))
	must(t, w.WriteShort(gds.DATATYPE, []int16{0}))
	must(t, w.WriteInt(gds.XY, []int32{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}))
	must(t, w.WriteNone(gds.ENDEL))
	must(t, w.WriteNone(gds.ENDSTR))

	must(t, w.WriteShort(gds.BGNSTR, make([]int16, 12)))
	must(t, w.WriteString(gds.STRNAME, "CHILD"))
	must(t, w.WriteNone(gds.BOUNDARY))
	must(t, w.WriteShort(gds.LAYER, []int16{2}))
	must(t, w.WriteShort(gds.DATATYPE, []int16{0}))
	must(t, w.WriteInt(gds.XY, []int32{0, 0, 5, 0, 5, 5, 0, 5, 0, 0}))
	must(t, w.WriteNone(gds.ENDEL))
	must(t, w.WriteNone(gds.ENDSTR))

	must(t, w.WriteNone(gds.ENDLIB))
	must(t, w.Close())
}

func readAllRecords(t *testing.T, path string) []*gds.Record {
	t.Helper()
	rf, err := byteio.Open(path, byteio.Normal)
	must(t, err)
	defer rf.Close()
	s := gds.NewScanner(rf)
	var out []*gds.Record
	for {
		r, err := s.Record()
		if err != nil {
			break
		}
		out = append(out, r.Clone())
	}
	return out
}

func TestDumpRendersEveryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gds")
	writeSample(t, path)

	rf, err := byteio.Open(path, byteio.Normal)
	must(t, err)
	defer rf.Close()

	var out bytes.Buffer
	must(t, Dump(&out, gds.NewScanner(rf), Options{}))

	text := out.String()
	if !strings.Contains(text, `STRNAME "TOP"`) {
		t.Errorf("expected a STRNAME TOP line, got:\n%s", text)
	}
	if !strings.Contains(text, `STRNAME "CHILD"`) {
		t.Errorf("expected a STRNAME CHILD line, got:\n%s", text)
	}
	if !strings.Contains(text, "LAYER 1") || !strings.Contains(text, "LAYER 2") {
		t.Errorf("expected both LAYER records, got:\n%s", text)
	}
	if !strings.Contains(text, "ENDLIB") {
		t.Errorf("expected an ENDLIB line, got:\n%s", text)
	}
}

func TestDumpCellFilterExcludesOtherStructures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gds")
	writeSample(t, path)

	rf, err := byteio.Open(path, byteio.Normal)
	must(t, err)
	defer rf.Close()

	var out bytes.Buffer
	must(t, Dump(&out, gds.NewScanner(rf), Options{Cell: "CHILD"}))

	text := out.String()
	if strings.Contains(text, `STRNAME "TOP"`) {
		t.Errorf("TOP should have been filtered out, got:\n%s", text)
	}
	if !strings.Contains(text, `STRNAME "CHILD"`) {
		t.Errorf("expected the CHILD structure, got:\n%s", text)
	}
	if strings.Contains(text, "HEADER") {
		t.Errorf("library-level records should be dropped when filtering to one structure, got:\n%s", text)
	}
}

func TestIngestRoundTripsAllRecords(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "sample.gds")
	writeSample(t, srcPath)
	want := readAllRecords(t, srcPath)

	rf, err := byteio.Open(srcPath, byteio.Normal)
	must(t, err)
	var dumped bytes.Buffer
	must(t, Dump(&dumped, gds.NewScanner(rf), Options{}))
	must(t, rf.Close())

	dstPath := filepath.Join(t.TempDir(), "roundtrip.gds")
	wf, err := byteio.Create(dstPath, byteio.Normal)
	must(t, err)
	w := gds.NewWriter(wf)
	must(t, Ingest(strings.NewReader(dumped.String()), w))
	must(t, w.Close())

	got := readAllRecords(t, dstPath)
	if len(got) != len(want) {
		t.Fatalf("record count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i].Type {
			t.Fatalf("record %d: type = %v, want %v", i, got[i].Type, want[i].Type)
		}
		if !bytes.Equal(got[i].Body, want[i].Body) {
			t.Errorf("record %d (%v): body = %v, want %v", i, got[i].Type, got[i].Body, want[i].Body)
		}
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
