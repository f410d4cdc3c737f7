// Package byteio provides a typed file handle for the GDSII and OASIS
// codecs: sequential read/write over a file that may be
// transparently gzip-compressed, with seeks expressed in uncompressed
// offset space.
package byteio

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Kind selects how the underlying file is framed.
type Kind int

const (
	// Auto decides Normal vs Gzip from the ".gz" suffix of the path.
	Auto Kind = iota
	Normal
	Gzip
)

func (k Kind) resolve(name string) Kind {
	if k != Auto {
		return k
	}
	if strings.HasSuffix(name, ".gz") {
		return Gzip
	}
	return Normal
}

// File is an optionally gzip-framed sequential file handle. It keeps no
// buffer of its own; callers such as the GDSII scanner and writer add one.
// All offsets passed to Seek and returned from Offset are in
// uncompressed-stream space, regardless of Kind.
type File struct {
	name    string
	writing bool
	kind    Kind

	f *os.File

	gzr *gzip.Reader
	gzw *gzip.Writer

	off int64 // current uncompressed offset
}

// Open opens name for reading.
func Open(name string, kind Kind) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, openErr(name, err, false)
	}
	file := &File{name: name, kind: kind.resolve(name), f: f}
	if file.kind == Gzip {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, xerrors.Errorf("byteio: opening gzip stream %s: %w", name, err)
		}
		file.gzr = gzr
	}
	return file, nil
}

// Create opens name for writing, truncating any existing content.
func Create(name string, kind Kind) (*File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, openErr(name, err, true)
	}
	file := &File{name: name, writing: true, kind: kind.resolve(name), f: f}
	if file.kind == Gzip {
		file.gzw = gzip.NewWriter(f)
	}
	return file, nil
}

// openErr distinguishes a missing parent directory (when creating) from
// any other open failure, per spec.md §4.1.
func openErr(name string, err error, creating bool) error {
	if creating && os.IsNotExist(err) {
		dir := filepath.Dir(name)
		if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
			return xerrors.Errorf("byteio: creating %s: parent directory does not exist", name)
		}
	}
	return xerrors.Errorf("byteio: opening %s: %w", name, err)
}

// Read reads len(p) bytes at most, retrying on EINTR.
func (f *File) Read(p []byte) (int, error) {
	var r io.Reader = f.f
	if f.gzr != nil {
		r = f.gzr
	}
	for {
		n, err := r.Read(p)
		f.off += int64(n)
		if n > 0 || !isEINTR(err) {
			return n, err
		}
	}
}

// Write writes p in full, retrying on EINTR.
func (f *File) Write(p []byte) (int, error) {
	if !f.writing {
		return 0, xerrors.Errorf("byteio: %s is open for reading", f.name)
	}
	var w io.Writer = f.f
	if f.gzw != nil {
		w = f.gzw
	}
	total := 0
	for total < len(p) {
		n, err := w.Write(p[total:])
		total += n
		f.off += int64(n)
		if err != nil {
			if isEINTR(err) {
				continue
			}
			return total, err
		}
	}
	return total, nil
}

// Offset returns the current position in uncompressed-stream space.
func (f *File) Offset() int64 { return f.off }

// Seek repositions to an absolute uncompressed-stream offset. Backward
// seeks while writing a gzip stream are forbidden, matching spec.md §4.1;
// a plain file open for writing may seek in either direction.
func (f *File) Seek(offset int64) error {
	if f.writing {
		if f.gzw != nil {
			if offset < f.off {
				return xerrors.Errorf("byteio: cannot seek backward in a gzip write stream (%d < %d)", offset, f.off)
			}
			return f.discardWrite(offset - f.off)
		}
		if _, err := f.f.Seek(offset, io.SeekStart); err != nil {
			return xerrors.Errorf("byteio: seek %s: %w", f.name, err)
		}
		f.off = offset
		return nil
	}
	if f.gzr != nil {
		if offset < f.off {
			if err := f.rewindGzip(); err != nil {
				return err
			}
		}
		return f.discardRead(offset - f.off)
	}
	if _, err := f.f.Seek(offset, io.SeekStart); err != nil {
		return xerrors.Errorf("byteio: seek %s: %w", f.name, err)
	}
	f.off = offset
	return nil
}

func (f *File) rewindGzip() error {
	if _, err := f.f.Seek(0, io.SeekStart); err != nil {
		return xerrors.Errorf("byteio: rewind %s: %w", f.name, err)
	}
	if err := f.gzr.Reset(f.f); err != nil {
		return xerrors.Errorf("byteio: reset gzip stream %s: %w", f.name, err)
	}
	f.off = 0
	return nil
}

func (f *File) discardRead(n int64) error {
	if n < 0 {
		return xerrors.Errorf("byteio: negative discard %d", n)
	}
	var r io.Reader = f.f
	if f.gzr != nil {
		r = f.gzr
	}
	copied, err := io.CopyN(ioutil.Discard, r, n)
	f.off += copied
	if err != nil {
		return xerrors.Errorf("byteio: seeking past end of %s: %w", f.name, err)
	}
	return nil
}

func (f *File) discardWrite(n int64) error {
	if n < 0 {
		return xerrors.Errorf("byteio: negative discard %d", n)
	}
	zero := make([]byte, 4096)
	for n > 0 {
		chunk := int64(len(zero))
		if n < chunk {
			chunk = n
		}
		if _, err := f.Write(zero[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Close flushes and closes the handle.
func (f *File) Close() error {
	var errs []error
	if f.gzw != nil {
		if err := f.gzw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.gzr != nil {
		if err := f.gzr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.f.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return xerrors.Errorf("byteio: closing %s: %v", f.name, errs[0])
	}
	return nil
}

func isEINTR(err error) bool {
	errno, ok := err.(syscall.Errno)
	return ok && errno == unix.EINTR
}

// NewFromOSFile wraps an already-open *os.File for writing, applying the
// same gzip-framing rule as Create, for callers that manage the
// underlying file's lifecycle themselves (notably an atomic
// rename-on-success helper, which must Sync and Close the *os.File
// itself before renaming it into place).
func NewFromOSFile(f *os.File, name string, kind Kind) *File {
	file := &File{name: name, writing: true, kind: kind.resolve(name), f: f}
	if file.kind == Gzip {
		file.gzw = gzip.NewWriter(f)
	}
	return file
}

// FinishWrite flushes and closes any gzip framing without closing the
// wrapped *os.File, so a caller using NewFromOSFile can still perform
// its own Sync/Close/rename afterward.
func (f *File) FinishWrite() error {
	if f.gzw != nil {
		return f.gzw.Close()
	}
	return nil
}

// Name returns the path the handle was opened with.
func (f *File) Name() string { return f.name }

var _ fmt.Stringer = (*File)(nil)

func (f *File) String() string { return f.name }
