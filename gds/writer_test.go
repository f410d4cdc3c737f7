package gds

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icflow/layoutfmt/byteio"
)

func TestWriteStringSplitsOversizeBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "longname.gds")
	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter(wf)

	long := strings.Repeat("a", maxBodyLen+100)
	if err := w.WriteString(STRNAME, long); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := byteio.Open(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	s := NewScanner(rf)

	var rebuilt strings.Builder
	count := 0
	for {
		rec, err := s.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if rec.Type != STRNAME {
			t.Fatalf("unexpected record type %v", rec.Type)
		}
		rebuilt.WriteString(DecodeString(rec.Body))
		count++
	}
	if count < 2 {
		t.Fatalf("expected the oversize string to split into multiple records, got %d", count)
	}
	if rebuilt.String() != long {
		t.Fatalf("rebuilt string length %d, want %d", rebuilt.Len(), len(long))
	}
}

func TestValidateRejectsWrongKind(t *testing.T) {
	if err := validate(HEADER, KindInt, 4); err == nil {
		t.Fatal("expected error writing HEADER with int kind")
	}
}

func TestValidateRejectsReservedType(t *testing.T) {
	if err := validate(SPACING, KindNone, 0); err == nil {
		t.Fatal("expected error writing a reserved record type")
	}
}
