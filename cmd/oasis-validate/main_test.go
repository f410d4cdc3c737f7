package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/icflow/layoutfmt/oasis"
)

func writeOASISWithSignature(t *testing.T, path string, scheme oasis.ValidationScheme, corrupt bool) {
	t.Helper()
	var body bytes.Buffer
	body.WriteString("%SEMI-OASIS\r\n")
	body.WriteByte(byte(oasis.RecStart))

	sig := oasis.AppendSignature(scheme, body.Bytes())
	if corrupt {
		sig[len(sig)-1] ^= 0xFF
	}
	body.Write(sig)

	wf, err := byteio.Create(path, byteio.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wf.Write(body.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := wf.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRunReportsValidSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valid.oasis")
	writeOASISWithSignature(t, path, oasis.ValidationCRC32, false)

	valid, err := run(path)
	if err != nil {
		t.Fatal(err)
	}
	if !valid {
		t.Error("expected a valid CRC-32 signature")
	}
}

func TestRunReportsCorruptSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.oasis")
	writeOASISWithSignature(t, path, oasis.ValidationCRC32, true)

	valid, err := run(path)
	if err != nil {
		t.Fatal(err)
	}
	if valid {
		t.Error("expected an invalid signature to be reported")
	}
}
