package gds

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/xerrors"
)

// DecodeShort decodes a slice of big-endian 2's complement 16-bit values.
func DecodeShort(body []byte) []int16 {
	out := make([]int16, len(body)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
	}
	return out
}

// EncodeShort encodes a slice of 16-bit values, big-endian.
func EncodeShort(vs []int16) []byte {
	out := make([]byte, len(vs)*2)
	for i, v := range vs {
		binary.BigEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// DecodeInt decodes a slice of big-endian 2's complement 32-bit values.
// The sign bit is propagated explicitly so behaviour does not depend on
// the width of the host int type.
func DecodeInt(body []byte) []int32 {
	out := make([]int32, len(body)/4)
	for i := range out {
		u := binary.BigEndian.Uint32(body[i*4:])
		v := int32(u)
		out[i] = v
	}
	return out
}

// EncodeInt encodes a slice of 32-bit values, big-endian.
func EncodeInt(vs []int32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.BigEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

// DecodeBitArray decodes a 2-byte big-endian unsigned bit array.
func DecodeBitArray(body []byte) (uint16, error) {
	if len(body) != 2 {
		return 0, xerrors.Errorf("gds: bit array body must be 2 bytes, got %d", len(body))
	}
	return binary.BigEndian.Uint16(body), nil
}

// EncodeBitArray encodes a 2-byte big-endian unsigned bit array.
func EncodeBitArray(v uint16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, v)
	return out
}

// DecodeDouble decodes a slice of 8-byte IBM-370 reals.
func DecodeDouble(body []byte) []float64 {
	out := make([]float64, len(body)/8)
	for i := range out {
		var b [8]byte
		copy(b[:], body[i*8:i*8+8])
		out[i] = GDSToDouble(b)
	}
	return out
}

// EncodeDouble encodes a slice of doubles as 8-byte IBM-370 reals.
func EncodeDouble(vs []float64) []byte {
	out := make([]byte, len(vs)*8)
	for i, v := range vs {
		b := DoubleToGDS(v)
		copy(out[i*8:], b[:])
	}
	return out
}

// DecodeString decodes a variable-length string body: a blob padded to
// even length with at most one trailing NUL.
func DecodeString(body []byte) string {
	if len(body) > 0 && body[len(body)-1] == 0 {
		body = body[:len(body)-1]
	}
	return string(body)
}

// EncodeString encodes s as a variable-length, NUL-padded-to-even body.
func EncodeString(s string) []byte {
	body := []byte(s)
	if len(body)%2 != 0 {
		body = append(body, 0)
	}
	return body
}

// DecodeFixedStrings splits a fixed-blob string body (REFLIBS/FONTS) into
// unit-sized, NUL-trimmed strings.
func DecodeFixedStrings(body []byte, unit int) []string {
	out := make([]string, 0, len(body)/unit)
	for off := 0; off+unit <= len(body); off += unit {
		out = append(out, string(bytes.TrimRight(body[off:off+unit], "\x00")))
	}
	return out
}

// EncodeFixedStrings packs strings into unit-sized, NUL-padded blobs.
func EncodeFixedStrings(ss []string, unit int) []byte {
	out := make([]byte, len(ss)*unit)
	for i, s := range ss {
		copy(out[i*unit:(i+1)*unit], s)
	}
	return out
}
