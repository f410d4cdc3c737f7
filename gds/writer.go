package gds

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/icflow/layoutfmt/byteio"
	"github.com/orcaman/writerseeker"
	"golang.org/x/xerrors"
)

const defaultChunkSize = 8 * 1024

// Writer encodes GDSII records to a byteio.File.
type Writer struct {
	f  *byteio.File
	bw *bufio.Writer
}

// NewWriter wraps f with a buffer sized for the default chunk size plus
// one maximal record, per spec.md §4.2.
func NewWriter(f *byteio.File) *Writer {
	return &Writer{f: f, bw: bufio.NewWriterSize(f, defaultChunkSize+maxBodyLen+4)}
}

// Flush forces any buffered bytes to the underlying file.
func (w *Writer) Flush() error { return w.bw.Flush() }

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// validate enforces the per-type body shape at the point of emission,
// per spec.md §4.2 "Emission APIs enforce per-record data-kind".
func validate(t RecordType, kind DataKind, bodyLen int) error {
	desc, ok := describe(t)
	if !ok || desc.Invalid {
		return xerrors.Errorf("gds: cannot write invalid/unknown record type %v", t)
	}
	if desc.Kind != kind {
		return xerrors.Errorf("gds: record %v expects data kind %v, got %v", t, desc.Kind, kind)
	}
	if bodyLen < desc.MinLen || bodyLen > desc.MaxLen {
		return xerrors.Errorf("gds: record %v body length %d out of range [%d,%d]", t, bodyLen, desc.MinLen, desc.MaxLen)
	}
	unit := desc.Unit
	if desc.FixedStringUnit != 0 {
		unit = desc.FixedStringUnit
	}
	if unit > 0 && bodyLen%unit != 0 {
		return xerrors.Errorf("gds: record %v body length %d not a multiple of %d", t, bodyLen, unit)
	}
	return nil
}

// WriteRecord stages body through a pre-reserved in-memory buffer so the
// 2-byte length field can be back-patched once the final size is known,
// then emits the finished record to the buffered output.
func (w *Writer) WriteRecord(t RecordType, kind DataKind, body []byte) error {
	if err := validate(t, kind, len(body)); err != nil {
		return err
	}
	return w.emit(t, body)
}

func (w *Writer) emit(t RecordType, body []byte) error {
	var ws writerseeker.WriterSeeker
	var header [4]byte
	if _, err := ws.Write(header[:]); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := ws.Write(body); err != nil {
			return err
		}
	}

	total := len(body) + 4
	binary.BigEndian.PutUint16(header[0:2], uint16(total))
	header[2] = byte(t)
	header[3] = dataKindByte(dataKindOf(t))
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := ws.Write(header[:]); err != nil {
		return err
	}

	if _, err := io.Copy(w.bw, ws.BytesReader()); err != nil {
		return xerrors.Errorf("gds: writing %v record: %w", t, err)
	}
	return nil
}

func dataKindOf(t RecordType) DataKind {
	d, _ := describe(t)
	return d.Kind
}

func dataKindByte(k DataKind) byte {
	switch k {
	case KindNone:
		return 0
	case KindBitArray:
		return 1
	case KindShort:
		return 2
	case KindInt:
		return 3
	case KindDouble:
		return 5
	case KindString:
		return 6
	default:
		return 0
	}
}

// Convenience encoders built on WriteRecord.

func (w *Writer) WriteNone(t RecordType) error {
	return w.WriteRecord(t, KindNone, nil)
}

func (w *Writer) WriteShort(t RecordType, vs []int16) error {
	return w.WriteRecord(t, KindShort, EncodeShort(vs))
}

func (w *Writer) WriteInt(t RecordType, vs []int32) error {
	return w.WriteRecord(t, KindInt, EncodeInt(vs))
}

func (w *Writer) WriteBitArray(t RecordType, v uint16) error {
	return w.WriteRecord(t, KindBitArray, EncodeBitArray(v))
}

func (w *Writer) WriteDouble(t RecordType, vs []float64) error {
	return w.WriteRecord(t, KindDouble, EncodeDouble(vs))
}

// WriteString emits s as one or more same-type records, splitting at
// maxBodyLen when the NUL-padded encoding would otherwise overflow a
// single record's length field.
func (w *Writer) WriteString(t RecordType, s string) error {
	body := EncodeString(s)
	if len(body) <= maxBodyLen {
		return w.WriteRecord(t, KindString, body)
	}
	for off := 0; off < len(body); off += maxBodyLen {
		end := off + maxBodyLen
		if end > len(body) {
			end = len(body)
		}
		if err := w.WriteRecord(t, KindString, body[off:end]); err != nil {
			return err
		}
	}
	return nil
}

// WriteFixedStrings emits REFLIBS/FONTS-style fixed-blob string records.
func (w *Writer) WriteFixedStrings(t RecordType, ss []string, unit int) error {
	return w.WriteRecord(t, KindString, EncodeFixedStrings(ss, unit))
}
