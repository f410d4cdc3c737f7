package main

import (
	"path/filepath"
	"testing"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/gds"
)

func writeMinimalGDS(t *testing.T, path string) {
	t.Helper()
	wf, err := byteio.Create(path, byteio.Auto)
	if err != nil {
		t.Fatal(err)
	}
	w := gds.NewWriter(wf)
	if err := w.WriteShort(gds.HEADER, []int16{600}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString(gds.LIBNAME, "LIB"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteNone(gds.ENDLIB); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func readRecordTypes(t *testing.T, path string) []gds.RecordType {
	t.Helper()
	rf, err := byteio.Open(path, byteio.Auto)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	sc := gds.NewScanner(rf)
	var out []gds.RecordType
	for {
		r, err := sc.Record()
		if err != nil {
			break
		}
		out = append(out, r.Type)
	}
	return out
}

func TestCopyPreservesRecordSequence(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.gds")
	dst := filepath.Join(dir, "out.gds")
	writeMinimalGDS(t, src)

	if err := run(src, dst); err != nil {
		t.Fatal(err)
	}

	want := readRecordTypes(t, src)
	got := readRecordTypes(t, dst)
	if len(got) != len(want) {
		t.Fatalf("record count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCopyGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.gds")
	dst := filepath.Join(dir, "out.gds.gz")
	writeMinimalGDS(t, src)

	if err := run(src, dst); err != nil {
		t.Fatal(err)
	}

	want := readRecordTypes(t, src)
	got := readRecordTypes(t, dst)
	if len(got) != len(want) {
		t.Fatalf("record count = %d, want %d", len(got), len(want))
	}
}
