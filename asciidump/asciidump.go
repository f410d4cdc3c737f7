// Package asciidump renders a GDSII record stream as one text line per
// record and parses that text back into records. It reuses gds's own
// descriptor table for data kinds, so a new record type only needs to
// be taught to package gds, never here. It builds no cell or element
// model: the only place a structure name matters is Dump's optional
// per-cell filter, and even that is tracked as a single pending name,
// not a parsed tree.
package asciidump

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/icflow/layoutfmt/gds"
	"golang.org/x/xerrors"
)

// Options controls Dump's output.
type Options struct {
	// Cell, if non-empty, restricts output to the single structure
	// named by an STRNAME record matching it: the BGNSTR through
	// ENDSTR records bracketing that STRNAME, inclusive. Library-level
	// records outside any structure (HEADER, BGNLIB, UNITS, ...) are
	// dropped in this mode.
	Cell string
}

// Dump writes one line per record scanned from s until EOF.
func Dump(w io.Writer, s *gds.Scanner, opts Options) error {
	bw := bufio.NewWriter(w)

	var pending []string
	pendingName := ""
	inStruct := false
	matched := opts.Cell == ""

	flushPending := func() error {
		if matched {
			for _, line := range pending {
				if _, err := bw.WriteString(line); err != nil {
					return err
				}
			}
		}
		pending = pending[:0]
		pendingName = ""
		return nil
	}

	for {
		rec, err := s.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xerrors.Errorf("asciidump: %w", err)
		}
		line, err := formatRecord(rec)
		if err != nil {
			return xerrors.Errorf("asciidump: record at offset %d: %w", s.Offset(), err)
		}

		if opts.Cell == "" {
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
			continue
		}

		switch rec.Type {
		case gds.BGNSTR:
			inStruct = true
			matched = false
			pending = pending[:0]
			pending = append(pending, line)
		case gds.STRNAME:
			pendingName = gds.DecodeString(rec.Body)
			matched = pendingName == opts.Cell
			if inStruct {
				pending = append(pending, line)
			}
		case gds.ENDSTR:
			if inStruct {
				pending = append(pending, line)
				if err := flushPending(); err != nil {
					return err
				}
				inStruct = false
			}
		default:
			if inStruct {
				pending = append(pending, line)
			}
		}
	}
	return bw.Flush()
}

// formatRecord renders one record as "NAME field field ...\n". String
// fields are quoted with strconv.Quote so embedded whitespace survives
// the round trip through Ingest.
func formatRecord(r *gds.Record) (string, error) {
	var b strings.Builder
	b.WriteString(r.Type.String())

	kind, fixedUnit, ok := gds.Describe(r.Type)
	if !ok {
		return "", xerrors.Errorf("unknown or invalid record type %v", r.Type)
	}
	switch kind {
	case gds.KindNone:
	case gds.KindBitArray:
		v, err := gds.DecodeBitArray(r.Body)
		if err != nil {
			return "", err
		}
		b.WriteString(" 0x")
		b.WriteString(strconv.FormatUint(uint64(v), 16))
	case gds.KindShort:
		for _, v := range gds.DecodeShort(r.Body) {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
	case gds.KindInt:
		for _, v := range gds.DecodeInt(r.Body) {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
	case gds.KindDouble:
		for _, v := range gds.DecodeDouble(r.Body) {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	case gds.KindString:
		if fixedUnit != 0 {
			for _, s := range gds.DecodeFixedStrings(r.Body, fixedUnit) {
				b.WriteByte(' ')
				b.WriteString(strconv.Quote(s))
			}
		} else {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(gds.DecodeString(r.Body)))
		}
	default:
		return "", xerrors.Errorf("unhandled data kind %v for record type %v", kind, r.Type)
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// Ingest parses Dump's line format from r and re-emits the records
// through w. Blank lines and lines starting with "#" are skipped.
func Ingest(r io.Reader, w *gds.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ingestLine(w, line); err != nil {
			return xerrors.Errorf("asciidump: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return xerrors.Errorf("asciidump: %w", err)
	}
	return nil
}

func ingestLine(w *gds.Writer, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	t, ok := gds.RecordTypeByName(name)
	if !ok {
		return xerrors.Errorf("unknown record name %q", name)
	}
	kind, fixedUnit, ok := gds.Describe(t)
	if !ok {
		return xerrors.Errorf("record %q has no valid descriptor", name)
	}
	fields := splitFields(rest)

	switch kind {
	case gds.KindNone:
		return w.WriteNone(t)
	case gds.KindBitArray:
		if len(fields) != 1 {
			return xerrors.Errorf("%s: expected exactly one bit-array field, got %d", name, len(fields))
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 16)
		if err != nil {
			return xerrors.Errorf("%s: %w", name, err)
		}
		return w.WriteBitArray(t, uint16(v))
	case gds.KindShort:
		vs := make([]int16, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseInt(f, 10, 16)
			if err != nil {
				return xerrors.Errorf("%s: %w", name, err)
			}
			vs[i] = int16(n)
		}
		return w.WriteShort(t, vs)
	case gds.KindInt:
		vs := make([]int32, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return xerrors.Errorf("%s: %w", name, err)
			}
			vs[i] = int32(n)
		}
		return w.WriteInt(t, vs)
	case gds.KindDouble:
		vs := make([]float64, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return xerrors.Errorf("%s: %w", name, err)
			}
			vs[i] = n
		}
		return w.WriteDouble(t, vs)
	case gds.KindString:
		ss := make([]string, len(fields))
		for i, f := range fields {
			s, err := strconv.Unquote(f)
			if err != nil {
				return xerrors.Errorf("%s: unquoting field %d: %w", name, i, err)
			}
			ss[i] = s
		}
		if fixedUnit != 0 {
			return w.WriteFixedStrings(t, ss, fixedUnit)
		}
		if len(ss) != 1 {
			return xerrors.Errorf("%s: expected exactly one string field, got %d", name, len(ss))
		}
		return w.WriteString(t, ss[0])
	default:
		return xerrors.Errorf("%s: unhandled data kind %v", name, kind)
	}
}

// splitFields splits a line's remainder on whitespace, keeping
// double-quoted substrings (as produced by strconv.Quote) intact as a
// single field.
func splitFields(s string) []string {
	var out []string
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			break
		}
		if s[i] == '"' {
			j := i + 1
			for j < len(s) {
				if s[j] == '\\' {
					j += 2
					continue
				}
				if s[j] == '"' {
					j++
					break
				}
				j++
			}
			out = append(out, s[i:j])
			i = j
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' {
			j++
		}
		out = append(out, s[i:j])
		i = j
	}
	return out
}
