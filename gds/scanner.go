package gds

import (
	"encoding/binary"
	"io"

	"github.com/icflow/layoutfmt/byteio"
	"golang.org/x/xerrors"
)

const defaultScanBuf = 128 * 1024

// Scanner produces one Record per call to Record. The Body slice of a
// returned Record aliases the scanner's internal buffer and is valid
// only until the next call to Record or Seek.
type Scanner struct {
	r        *byteio.File
	buf      []byte
	pos, end int
	bufStart int64
}

// NewScanner wraps f with a buffer of at least 128 KiB, per spec.md §4.1.
func NewScanner(f *byteio.File) *Scanner {
	return &Scanner{r: f, buf: make([]byte, defaultScanBuf)}
}

// Offset returns the absolute byte offset of the next record to be read.
func (s *Scanner) Offset() int64 { return s.bufStart + int64(s.pos) }

// Seek repositions the scanner to an absolute offset. If the offset
// falls within the currently buffered window it is O(1); otherwise the
// buffer is discarded and the underlying file is repositioned.
func (s *Scanner) Seek(offset int64) error {
	if offset >= s.bufStart && offset < s.bufStart+int64(s.end) {
		s.pos = int(offset - s.bufStart)
		return nil
	}
	if err := s.r.Seek(offset); err != nil {
		return err
	}
	s.bufStart = offset
	s.pos, s.end = 0, 0
	return nil
}

// ensure guarantees at least n unread bytes are buffered starting at pos,
// growing and/or compacting the buffer as needed.
func (s *Scanner) ensure(n int) error {
	for s.end-s.pos < n {
		if s.pos > 0 {
			copy(s.buf, s.buf[s.pos:s.end])
			s.end -= s.pos
			s.bufStart += int64(s.pos)
			s.pos = 0
		}
		if s.end == len(s.buf) {
			ns := make([]byte, len(s.buf)*2)
			copy(ns, s.buf[:s.end])
			s.buf = ns
		}
		m, err := s.r.Read(s.buf[s.end:])
		s.end += m
		if m == 0 {
			if err == nil {
				continue
			}
			return err
		}
	}
	return nil
}

// Record reads and validates the next record. It returns io.EOF when the
// stream ends cleanly at a record boundary.
func (s *Scanner) Record() (*Record, error) {
	if err := s.ensure(4); err != nil {
		if err == io.EOF && s.pos == s.end {
			return nil, io.EOF
		}
		return nil, xerrors.Errorf("gds: unexpected EOF reading record header at offset %d: %w", s.Offset(), err)
	}

	offset := s.Offset()
	header := s.buf[s.pos : s.pos+4]
	length := int(binary.BigEndian.Uint16(header[0:2]))
	rtype := RecordType(header[2])

	if length < 4 {
		return nil, xerrors.Errorf("gds: record length %d at offset %d is shorter than the header", length, offset)
	}
	if length%2 != 0 {
		return nil, xerrors.Errorf("gds: record length %d at offset %d is odd", length, offset)
	}

	desc, ok := describe(rtype)
	if !ok {
		return nil, xerrors.Errorf("gds: record type %d at offset %d is out of range", byte(rtype), offset)
	}
	if desc.Invalid {
		return nil, xerrors.Errorf("gds: record type %v at offset %d is reserved/invalid", rtype, offset)
	}

	bodyLen := length - 4
	if bodyLen < desc.MinLen || bodyLen > desc.MaxLen {
		return nil, xerrors.Errorf("gds: record %v body length %d at offset %d out of range [%d,%d]", rtype, bodyLen, offset, desc.MinLen, desc.MaxLen)
	}
	unit := desc.Unit
	if desc.FixedStringUnit != 0 {
		unit = desc.FixedStringUnit
	}
	if unit > 0 && bodyLen%unit != 0 {
		return nil, xerrors.Errorf("gds: record %v body length %d at offset %d is not a multiple of %d", rtype, bodyLen, offset, unit)
	}

	if err := s.ensure(length); err != nil {
		return nil, xerrors.Errorf("gds: unexpected EOF reading body of %v at offset %d: %w", rtype, offset, err)
	}
	body := s.buf[s.pos+4 : s.pos+length]
	s.pos += length

	return &Record{Type: rtype, Kind: desc.Kind, Body: body}, nil
}

// Clone returns a copy of r whose Body is independent of the scanner's
// internal buffer, safe to retain past the next call to Record.
func (r *Record) Clone() *Record {
	body := make([]byte, len(r.Body))
	copy(body, r.Body)
	return &Record{Type: r.Type, Kind: r.Kind, Body: body}
}
