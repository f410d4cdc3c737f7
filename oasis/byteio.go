// Package oasis implements the OASIS record model: variable-length
// integer and real-number codecs, modal-variable state, name tables
// with reference numbers, and validation signatures.
package oasis

import (
	"bufio"
	"io"

	"golang.org/x/xerrors"
)

const defaultOASISBuf = 128 * 1024

// Reader is a byte-oriented cursor over an OASIS stream, tracking the
// absolute offset of the next unread byte for diagnostics.
type Reader struct {
	br  *bufio.Reader
	off int64
}

// NewReader wraps any io.Reader (typically a *byteio.File).
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, defaultOASISBuf)}
}

func (r *Reader) Offset() int64 { return r.off }

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, err
	}
	r.off++
	return b, nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	total := 0
	for total < n {
		m, err := r.br.Read(buf[total:])
		total += m
		r.off += int64(m)
		if err != nil {
			if m > 0 && total == n {
				break
			}
			return nil, xerrors.Errorf("oasis: reading %d bytes at offset %d: %w", n, r.off, err)
		}
	}
	return buf, nil
}

// Writer is the symmetric byte-oriented cursor for encoding.
type Writer struct {
	bw  *bufio.Writer
	off int64
}

// NewWriter wraps any io.Writer (typically a *byteio.File).
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, defaultOASISBuf)}
}

func (w *Writer) Offset() int64 { return w.off }

func (w *Writer) WriteByte(b byte) error {
	if err := w.bw.WriteByte(b); err != nil {
		return err
	}
	w.off++
	return nil
}

func (w *Writer) Write(p []byte) error {
	n, err := w.bw.Write(p)
	w.off += int64(n)
	return err
}

func (w *Writer) Flush() error { return w.bw.Flush() }
