package oasis

import "golang.org/x/xerrors"

// ReadString decodes an OASIS b-string: an unsigned varint byte count
// followed by that many raw bytes. a-strings and n-strings layer
// additional character-set restrictions spec.md does not require this
// library to enforce, so all three share this one decoder.
func ReadString(r *Reader) (string, error) {
	n, err := ReadUnsigned(r)
	if err != nil {
		return "", xerrors.Errorf("oasis: reading string length at offset %d: %w", r.Offset(), err)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", xerrors.Errorf("oasis: reading %d-byte string at offset %d: %w", n, r.Offset(), err)
	}
	return string(b), nil
}

// WriteString encodes s as an OASIS b-string.
func WriteString(w *Writer, s string) error {
	if err := WriteUnsigned(w, uint64(len(s))); err != nil {
		return err
	}
	return w.Write([]byte(s))
}
