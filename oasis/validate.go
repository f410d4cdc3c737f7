package oasis

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"io/ioutil"

	"golang.org/x/xerrors"
)

// ValidationScheme is the OASIS END-record validation byte.
type ValidationScheme byte

const (
	ValidationNone       ValidationScheme = 0
	ValidationCRC32      ValidationScheme = 1
	ValidationChecksum32 ValidationScheme = 2
)

// ComputeCRC32 returns the CRC-32 (IEEE polynomial) of data. hash/crc32's
// IEEE table is the exact polynomial the OASIS format mandates, so there
// is no third-party codec to reach for here.
func ComputeCRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ComputeChecksum32 returns the sum of every byte in data, mod 2^32.
func ComputeChecksum32(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

// ValidationResult is the outcome of checking a file's trailer.
type ValidationResult struct {
	Scheme   ValidationScheme
	Stored   uint32
	Computed uint32
	Valid    bool
}

// Validate reads all of r, computes the validation signature declared by
// the trailing scheme byte, and compares it against the stored 4-byte
// signature. A mismatch is reported through ValidationResult.Valid, not
// an error: per spec.md §4.3, "Mismatch is a recoverable user-visible
// error (reported; parsing results are not delivered)".
func Validate(r io.Reader) (ValidationResult, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return ValidationResult{}, xerrors.Errorf("oasis: reading file for validation: %w", err)
	}
	if len(data) < 5 {
		return ValidationResult{}, xerrors.Errorf("oasis: file too short to contain a validation trailer")
	}
	scheme := ValidationScheme(data[len(data)-5])
	stored := binary.LittleEndian.Uint32(data[len(data)-4:])
	signed := data[:len(data)-4]

	res := ValidationResult{Scheme: scheme, Stored: stored}
	switch scheme {
	case ValidationNone:
		res.Valid = true
		return res, nil
	case ValidationCRC32:
		res.Computed = ComputeCRC32(signed)
	case ValidationChecksum32:
		res.Computed = ComputeChecksum32(signed)
	default:
		return ValidationResult{}, xerrors.Errorf("oasis: unknown validation scheme %d", scheme)
	}
	res.Valid = res.Computed == res.Stored
	return res, nil
}

// AppendSignature appends the scheme byte and signature for the bytes
// already written (all of stream), matching what a creator writes as
// the final bytes of the END record.
func AppendSignature(scheme ValidationScheme, streamSoFar []byte) []byte {
	out := append([]byte{}, byte(scheme))
	var sig uint32
	switch scheme {
	case ValidationCRC32:
		sig = ComputeCRC32(append(append([]byte{}, streamSoFar...), byte(scheme)))
	case ValidationChecksum32:
		sig = ComputeChecksum32(append(append([]byte{}, streamSoFar...), byte(scheme)))
	}
	var sigBytes [4]byte
	binary.LittleEndian.PutUint32(sigBytes[:], sig)
	return append(out, sigBytes[:]...)
}
