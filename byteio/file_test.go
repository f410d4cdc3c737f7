package byteio

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateMissingParentDir(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "nope", "out.gds"), Normal)
	if err == nil {
		t.Fatal("expected error creating file under a missing parent directory")
	}
	if got := err.Error(); !bytes.Contains([]byte(got), []byte("parent directory does not exist")) {
		t.Fatalf("error = %q, want substring %q", got, "parent directory does not exist")
	}
}

func TestRoundTripNormal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.bin")
	want := []byte("hello, gdsii world")

	w, err := Create(path, Normal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path, Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripGzipAuto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.gds.gz")
	want := bytes.Repeat([]byte("ABCDxy"), 4096)

	w, err := Create(path, Auto)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if fi, err := os.Stat(path); err != nil || fi.Size() >= int64(len(want)) {
		t.Fatalf("expected compressed output smaller than input, stat=%v err=%v", fi, err)
	}

	r, err := Open(path, Auto)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got): %d bytes differ", len(diff))
	}
}

func TestSeekForwardGzipRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.gz")
	want := []byte("0123456789ABCDEFGHIJ")

	w, err := Create(path, Gzip)
	if err != nil {
		t.Fatal(err)
	}
	w.Write(want)
	w.Close()

	r, err := Open(path, Gzip)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.Seek(10); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 5)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "ABCDE" {
		t.Fatalf("got %q, want %q", buf, "ABCDE")
	}
}

func TestSeekBackwardForbiddenWhileWritingGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nobackseek.gz")
	w, err := Create(path, Gzip)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.Write([]byte("hello"))
	if err := w.Seek(0); err == nil {
		t.Fatal("expected error seeking backward in a gzip write stream")
	}
}
