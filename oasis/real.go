package oasis

import (
	"encoding/binary"
	"math"

	"golang.org/x/xerrors"
)

// RealKind is the tag byte of an OASIS real number.
type RealKind byte

const (
	RealPosInt RealKind = iota
	RealNegInt
	RealPosReciprocal
	RealNegReciprocal
	RealPosRatio
	RealNegRatio
	RealFloat32
	RealFloat64
)

// Real is a tagged OASIS real number. Ratio forms retain their exact
// numerator/denominator so that decoding and re-encoding a value
// previously read as a ratio does not round it through floating point,
// per spec.md §4.3.
type Real struct {
	Kind           RealKind
	Num, Den       uint64
	F32            float32
	F64            float64
}

// RealFromFloat64 builds a plain 8-byte-IEEE754 real. Use it when no
// exact rational form is known; decoders that want to preserve
// rationality should keep and re-emit the original Real instead of
// going through this constructor.
func RealFromFloat64(v float64) Real { return Real{Kind: RealFloat64, F64: v} }

// Value converts r to a host double.
func (r Real) Value() float64 {
	switch r.Kind {
	case RealPosInt:
		return float64(r.Num)
	case RealNegInt:
		return -float64(r.Num)
	case RealPosReciprocal:
		return 1 / float64(r.Num)
	case RealNegReciprocal:
		return -1 / float64(r.Num)
	case RealPosRatio:
		return float64(r.Num) / float64(r.Den)
	case RealNegRatio:
		return -float64(r.Num) / float64(r.Den)
	case RealFloat32:
		return float64(r.F32)
	case RealFloat64:
		return r.F64
	default:
		return 0
	}
}

// ReadReal decodes one of the eight OASIS real-number encodings.
func ReadReal(r *Reader) (Real, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Real{}, xerrors.Errorf("oasis: reading real tag at offset %d: %w", r.Offset(), err)
	}
	switch RealKind(tag) {
	case RealPosInt, RealNegInt, RealPosReciprocal, RealNegReciprocal:
		n, err := ReadUnsigned(r)
		if err != nil {
			return Real{}, xerrors.Errorf("oasis: real(%d): %w", tag, err)
		}
		return Real{Kind: RealKind(tag), Num: n}, nil
	case RealPosRatio, RealNegRatio:
		num, err := ReadUnsigned(r)
		if err != nil {
			return Real{}, xerrors.Errorf("oasis: real(%d) numerator: %w", tag, err)
		}
		den, err := ReadUnsigned(r)
		if err != nil {
			return Real{}, xerrors.Errorf("oasis: real(%d) denominator: %w", tag, err)
		}
		return Real{Kind: RealKind(tag), Num: num, Den: den}, nil
	case RealFloat32:
		b, err := r.ReadBytes(4)
		if err != nil {
			return Real{}, xerrors.Errorf("oasis: real(6): %w", err)
		}
		return Real{Kind: RealFloat32, F32: math.Float32frombits(binary.LittleEndian.Uint32(b))}, nil
	case RealFloat64:
		b, err := r.ReadBytes(8)
		if err != nil {
			return Real{}, xerrors.Errorf("oasis: real(7): %w", err)
		}
		return Real{Kind: RealFloat64, F64: math.Float64frombits(binary.LittleEndian.Uint64(b))}, nil
	default:
		return Real{}, xerrors.Errorf("oasis: unknown real tag %d at offset %d", tag, r.Offset())
	}
}

// WriteReal encodes r using its own Kind, preserving any ratio form.
func WriteReal(w *Writer, r Real) error {
	if err := w.WriteByte(byte(r.Kind)); err != nil {
		return err
	}
	switch r.Kind {
	case RealPosInt, RealNegInt, RealPosReciprocal, RealNegReciprocal:
		return WriteUnsigned(w, r.Num)
	case RealPosRatio, RealNegRatio:
		if err := WriteUnsigned(w, r.Num); err != nil {
			return err
		}
		return WriteUnsigned(w, r.Den)
	case RealFloat32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(r.F32))
		return w.Write(b[:])
	case RealFloat64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(r.F64))
		return w.Write(b[:])
	default:
		return xerrors.Errorf("oasis: cannot write real with unknown kind %d", r.Kind)
	}
}
