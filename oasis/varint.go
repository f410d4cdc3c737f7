package oasis

import "golang.org/x/xerrors"

// maxVarintBytes bounds the number of continuation bytes accepted before
// an integer is declared over-long, per spec.md §7 "variable-length
// integer over-long".
const maxVarintBytes = 10

// ReadUnsigned decodes a 7-bits-per-byte, MSB-continuation unsigned
// variable-length integer.
func ReadUnsigned(r *Reader) (uint64, error) {
	var v uint64
	shift := uint(0)
	for i := 0; ; i++ {
		if i >= maxVarintBytes {
			return 0, xerrors.Errorf("oasis: unsigned integer at offset %d is over-long", r.Offset())
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, xerrors.Errorf("oasis: reading unsigned integer at offset %d: %w", r.Offset(), err)
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// WriteUnsigned encodes v as a 7-bits-per-byte unsigned varint.
func WriteUnsigned(w *Writer, v uint64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// ReadSigned decodes a signed variable-length integer: the low bit of
// the first byte carries the sign, the remaining 6 bits (and all 7 bits
// of subsequent bytes) carry the magnitude.
func ReadSigned(r *Reader) (int64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, xerrors.Errorf("oasis: reading signed integer at offset %d: %w", r.Offset(), err)
	}
	neg := first&0x01 != 0
	mag := uint64(first&0x7e) >> 1
	shift := uint(6)
	cont := first&0x80 != 0
	for i := 0; cont; i++ {
		if i >= maxVarintBytes {
			return 0, xerrors.Errorf("oasis: signed integer at offset %d is over-long", r.Offset())
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, xerrors.Errorf("oasis: reading signed integer at offset %d: %w", r.Offset(), err)
		}
		mag |= uint64(b&0x7f) << shift
		cont = b&0x80 != 0
		shift += 7
	}
	if neg {
		return -int64(mag), nil
	}
	return int64(mag), nil
}

// WriteSigned encodes v as a signed variable-length integer.
func WriteSigned(w *Writer, v int64) error {
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = uint64(-v)
	}
	first := byte(mag&0x3f) << 1
	if neg {
		first |= 0x01
	}
	mag >>= 6
	if mag != 0 {
		first |= 0x80
	}
	if err := w.WriteByte(first); err != nil {
		return err
	}
	for mag != 0 {
		b := byte(mag & 0x7f)
		mag >>= 7
		if mag != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
