package oasis

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestValidateCRC32RoundTrip(t *testing.T) {
	body := []byte("arbitrary oasis stream bytes for signature testing")
	sig := AppendSignature(ValidationCRC32, body)
	stream := append(append([]byte{}, body...), sig...)

	res, err := Validate(bytes.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Errorf("expected valid CRC32, got %+v", res)
	}
}

func TestValidateChecksum32RoundTrip(t *testing.T) {
	body := []byte("different body bytes")
	sig := AppendSignature(ValidationChecksum32, body)
	stream := append(append([]byte{}, body...), sig...)

	res, err := Validate(bytes.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Errorf("expected valid checksum32, got %+v", res)
	}
}

func TestValidateMismatchIsNotAnError(t *testing.T) {
	body := []byte("body")
	sig := AppendSignature(ValidationCRC32, body)
	// Corrupt the stored signature without recomputing it.
	corrupt := append(append([]byte{}, body...), sig...)
	binary.LittleEndian.PutUint32(corrupt[len(corrupt)-4:], 0xdeadbeef)

	res, err := Validate(bytes.NewReader(corrupt))
	if err != nil {
		t.Fatalf("mismatch should not be a Go error: %v", err)
	}
	if res.Valid {
		t.Error("expected mismatch to be reported as invalid")
	}
}

func TestValidateNone(t *testing.T) {
	stream := []byte{0, 0, 0, 0, 0}
	res, err := Validate(bytes.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Error("ValidationNone should always be valid")
	}
}

func TestComputeChecksum32(t *testing.T) {
	if got := ComputeChecksum32([]byte{1, 2, 3}); got != 6 {
		t.Errorf("ComputeChecksum32 = %d, want 6", got)
	}
}
