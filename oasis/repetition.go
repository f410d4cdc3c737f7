package oasis

import "golang.org/x/xerrors"

// RepetitionTag is the type byte at the head of an encoded repetition.
type RepetitionTag byte

const (
	TagArbitrary RepetitionTag = iota
	TagGridArbitrary
	TagMatrix
	TagUniformX
	TagUniformY
	TagGridUniformX
	TagGridUniformY
	TagVaryingX
	TagVaryingY
	TagGridVaryingX
	TagGridVaryingY
	TagDiagonal
	TagTiltedMatrix
)

// Repetition is a compact description of N copies of an element at a
// pattern of positions relative to an origin. The Point Grouper
// (package pointgrouper) emits only the first eleven variants named in
// spec.md §3; Diagonal and TiltedMatrix exist in the data model for
// completeness but are not produced by this repository's writers.
type Repetition interface {
	Tag() RepetitionTag
	// Points returns every position covered by this repetition, origin
	// included, in emission order.
	Points(origin Point) []Point
	encode(w *Writer) error
}

// ReadRepetition decodes one repetition, dispatching on its tag byte.
func ReadRepetition(r *Reader) (Repetition, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, xerrors.Errorf("oasis: reading repetition tag at offset %d: %w", r.Offset(), err)
	}
	tag := RepetitionTag(tagByte)
	switch tag {
	case TagArbitrary:
		return decodeArbitrary(r, false)
	case TagGridArbitrary:
		return decodeArbitrary(r, true)
	case TagMatrix:
		return decodeMatrix(r)
	case TagUniformX:
		return decodeUniform(r, false, false)
	case TagUniformY:
		return decodeUniform(r, true, false)
	case TagGridUniformX:
		return decodeUniform(r, false, true)
	case TagGridUniformY:
		return decodeUniform(r, true, true)
	case TagVaryingX:
		return decodeVarying(r, false, false)
	case TagVaryingY:
		return decodeVarying(r, true, false)
	case TagGridVaryingX:
		return decodeVarying(r, false, true)
	case TagGridVaryingY:
		return decodeVarying(r, true, true)
	case TagDiagonal, TagTiltedMatrix:
		return nil, xerrors.Errorf("oasis: repetition tag %d (diagonal/tilted-matrix) is not decodable: spec.md does not define its field layout and the point grouper never emits it", tagByte)
	default:
		return nil, xerrors.Errorf("oasis: unknown repetition tag %d at offset %d", tagByte, r.Offset())
	}
}

// WriteRepetition encodes rep's tag byte followed by its fields.
func WriteRepetition(w *Writer, rep Repetition) error {
	if err := w.WriteByte(byte(rep.Tag())); err != nil {
		return err
	}
	return rep.encode(w)
}

// ---- Arbitrary / GridArbitrary ----

// Arbitrary is a point list with no recognised regular pattern. Deltas
// holds one g-delta per point after the (implicit) origin.
type Arbitrary struct{ Deltas []Point }

func (a Arbitrary) Tag() RepetitionTag { return TagArbitrary }
func (a Arbitrary) Points(origin Point) []Point {
	pts := make([]Point, 0, len(a.Deltas)+1)
	cur := origin
	pts = append(pts, cur)
	for _, d := range a.Deltas {
		cur = Point{cur.X + d.X, cur.Y + d.Y}
		pts = append(pts, cur)
	}
	return pts
}
func (a Arbitrary) encode(w *Writer) error {
	if err := WriteUnsigned(w, uint64(len(a.Deltas))); err != nil {
		return err
	}
	for _, d := range a.Deltas {
		if err := WriteGDelta(w, d); err != nil {
			return err
		}
	}
	return nil
}

// GridArbitrary is Arbitrary with every delta expressed as a multiple of Grid.
type GridArbitrary struct {
	Grid   uint64
	Deltas []Point // already scaled by Grid
}

func (g GridArbitrary) Tag() RepetitionTag { return TagGridArbitrary }
func (g GridArbitrary) Points(origin Point) []Point {
	return Arbitrary{Deltas: g.Deltas}.Points(origin)
}
func (g GridArbitrary) encode(w *Writer) error {
	if err := WriteUnsigned(w, g.Grid); err != nil {
		return err
	}
	return Arbitrary{Deltas: g.Deltas}.encode(w)
}

func decodeArbitrary(r *Reader, grid bool) (Repetition, error) {
	var g uint64 = 1
	if grid {
		var err error
		g, err = ReadUnsigned(r)
		if err != nil {
			return nil, xerrors.Errorf("oasis: grid-arbitrary repetition grid: %w", err)
		}
	}
	n, err := ReadUnsigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: arbitrary repetition count: %w", err)
	}
	deltas := make([]Point, n)
	for i := range deltas {
		d, err := ReadGDelta(r)
		if err != nil {
			return nil, xerrors.Errorf("oasis: arbitrary repetition delta %d: %w", i, err)
		}
		deltas[i] = d
	}
	if grid {
		return GridArbitrary{Grid: g, Deltas: deltas}, nil
	}
	return Arbitrary{Deltas: deltas}, nil
}

// ---- Matrix ----

// Matrix is an axis-aligned rectangular grid of Cols x Rows points.
type Matrix struct {
	Cols, Rows       int64
	ColStep, RowStep int64
}

func (m Matrix) Tag() RepetitionTag { return TagMatrix }
func (m Matrix) Points(origin Point) []Point {
	pts := make([]Point, 0, m.Cols*m.Rows)
	for row := int64(0); row < m.Rows; row++ {
		for col := int64(0); col < m.Cols; col++ {
			pts = append(pts, Point{origin.X + col*m.ColStep, origin.Y + row*m.RowStep})
		}
	}
	return pts
}
func (m Matrix) encode(w *Writer) error {
	if err := WriteUnsigned(w, uint64(m.Cols)); err != nil {
		return err
	}
	if err := WriteUnsigned(w, uint64(m.Rows)); err != nil {
		return err
	}
	if err := WriteSigned(w, m.ColStep); err != nil {
		return err
	}
	return WriteSigned(w, m.RowStep)
}

func decodeMatrix(r *Reader) (Repetition, error) {
	cols, err := ReadUnsigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: matrix repetition cols: %w", err)
	}
	rows, err := ReadUnsigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: matrix repetition rows: %w", err)
	}
	colStep, err := ReadSigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: matrix repetition col step: %w", err)
	}
	rowStep, err := ReadSigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: matrix repetition row step: %w", err)
	}
	return Matrix{Cols: int64(cols), Rows: int64(rows), ColStep: colStep, RowStep: rowStep}, nil
}

// ---- UniformX / UniformY / GridUniformX / GridUniformY ----

// UniformX is N equally spaced copies along the X axis.
type UniformX struct {
	N    int64
	Step int64
}

func (u UniformX) Tag() RepetitionTag { return TagUniformX }
func (u UniformX) Points(origin Point) []Point { return uniformPoints(origin, u.N, u.Step, true) }
func (u UniformX) encode(w *Writer) error      { return encodeUniform(w, u.N, u.Step) }

// UniformY is N equally spaced copies along the Y axis.
type UniformY struct {
	N    int64
	Step int64
}

func (u UniformY) Tag() RepetitionTag { return TagUniformY }
func (u UniformY) Points(origin Point) []Point { return uniformPoints(origin, u.N, u.Step, false) }
func (u UniformY) encode(w *Writer) error      { return encodeUniform(w, u.N, u.Step) }

// GridUniformX is UniformX with Step expressed as a multiple of Grid.
type GridUniformX struct {
	N    int64
	Grid uint64
	Step int64 // already scaled by Grid
}

func (u GridUniformX) Tag() RepetitionTag { return TagGridUniformX }
func (u GridUniformX) Points(origin Point) []Point {
	return uniformPoints(origin, u.N, u.Step, true)
}
func (u GridUniformX) encode(w *Writer) error {
	if err := WriteUnsigned(w, u.Grid); err != nil {
		return err
	}
	return encodeUniform(w, u.N, u.Step)
}

// GridUniformY is UniformY with Step expressed as a multiple of Grid.
type GridUniformY struct {
	N    int64
	Grid uint64
	Step int64
}

func (u GridUniformY) Tag() RepetitionTag { return TagGridUniformY }
func (u GridUniformY) Points(origin Point) []Point {
	return uniformPoints(origin, u.N, u.Step, false)
}
func (u GridUniformY) encode(w *Writer) error {
	if err := WriteUnsigned(w, u.Grid); err != nil {
		return err
	}
	return encodeUniform(w, u.N, u.Step)
}

func uniformPoints(origin Point, n, step int64, horizontal bool) []Point {
	pts := make([]Point, n)
	for i := int64(0); i < n; i++ {
		if horizontal {
			pts[i] = Point{origin.X + i*step, origin.Y}
		} else {
			pts[i] = Point{origin.X, origin.Y + i*step}
		}
	}
	return pts
}

func encodeUniform(w *Writer, n, step int64) error {
	if err := WriteUnsigned(w, uint64(n)); err != nil {
		return err
	}
	return WriteSigned(w, step)
}

func decodeUniform(r *Reader, vertical, grid bool) (Repetition, error) {
	var g uint64 = 1
	if grid {
		var err error
		g, err = ReadUnsigned(r)
		if err != nil {
			return nil, xerrors.Errorf("oasis: uniform repetition grid: %w", err)
		}
	}
	n, err := ReadUnsigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: uniform repetition count: %w", err)
	}
	step, err := ReadSigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: uniform repetition step: %w", err)
	}
	switch {
	case vertical && grid:
		return GridUniformY{N: int64(n), Grid: g, Step: step}, nil
	case vertical:
		return UniformY{N: int64(n), Step: step}, nil
	case grid:
		return GridUniformX{N: int64(n), Grid: g, Step: step}, nil
	default:
		return UniformX{N: int64(n), Step: step}, nil
	}
}

// ---- VaryingX / VaryingY / GridVaryingX / GridVaryingY ----

// VaryingX is a colinear sequence of points along the X axis with
// non-uniform, non-negative spacing.
type VaryingX struct{ Deltas []int64 }

func (v VaryingX) Tag() RepetitionTag          { return TagVaryingX }
func (v VaryingX) Points(origin Point) []Point { return varyingPoints(origin, v.Deltas, true) }
func (v VaryingX) encode(w *Writer) error      { return encodeVarying(w, v.Deltas) }

// VaryingY is the Y-axis analogue of VaryingX.
type VaryingY struct{ Deltas []int64 }

func (v VaryingY) Tag() RepetitionTag          { return TagVaryingY }
func (v VaryingY) Points(origin Point) []Point { return varyingPoints(origin, v.Deltas, false) }
func (v VaryingY) encode(w *Writer) error      { return encodeVarying(w, v.Deltas) }

// GridVaryingX is VaryingX with deltas expressed as multiples of Grid.
type GridVaryingX struct {
	Grid   uint64
	Deltas []int64
}

func (v GridVaryingX) Tag() RepetitionTag { return TagGridVaryingX }
func (v GridVaryingX) Points(origin Point) []Point {
	return varyingPoints(origin, v.Deltas, true)
}
func (v GridVaryingX) encode(w *Writer) error {
	if err := WriteUnsigned(w, v.Grid); err != nil {
		return err
	}
	return encodeVarying(w, v.Deltas)
}

// GridVaryingY is VaryingY with deltas expressed as multiples of Grid.
type GridVaryingY struct {
	Grid   uint64
	Deltas []int64
}

func (v GridVaryingY) Tag() RepetitionTag { return TagGridVaryingY }
func (v GridVaryingY) Points(origin Point) []Point {
	return varyingPoints(origin, v.Deltas, false)
}
func (v GridVaryingY) encode(w *Writer) error {
	if err := WriteUnsigned(w, v.Grid); err != nil {
		return err
	}
	return encodeVarying(w, v.Deltas)
}

func varyingPoints(origin Point, deltas []int64, horizontal bool) []Point {
	pts := make([]Point, 0, len(deltas)+1)
	cur := origin
	pts = append(pts, cur)
	for _, d := range deltas {
		if horizontal {
			cur = Point{cur.X + d, cur.Y}
		} else {
			cur = Point{cur.X, cur.Y + d}
		}
		pts = append(pts, cur)
	}
	return pts
}

func encodeVarying(w *Writer, deltas []int64) error {
	if err := WriteUnsigned(w, uint64(len(deltas))); err != nil {
		return err
	}
	for _, d := range deltas {
		if err := WriteUnsigned(w, uint64(d)); err != nil {
			return err
		}
	}
	return nil
}

func decodeVarying(r *Reader, vertical, grid bool) (Repetition, error) {
	var g uint64 = 1
	if grid {
		var err error
		g, err = ReadUnsigned(r)
		if err != nil {
			return nil, xerrors.Errorf("oasis: varying repetition grid: %w", err)
		}
	}
	n, err := ReadUnsigned(r)
	if err != nil {
		return nil, xerrors.Errorf("oasis: varying repetition count: %w", err)
	}
	deltas := make([]int64, n)
	for i := range deltas {
		d, err := ReadUnsigned(r)
		if err != nil {
			return nil, xerrors.Errorf("oasis: varying repetition delta %d: %w", i, err)
		}
		deltas[i] = int64(d)
	}
	switch {
	case vertical && grid:
		return GridVaryingY{Grid: g, Deltas: deltas}, nil
	case vertical:
		return VaryingY{Deltas: deltas}, nil
	case grid:
		return GridVaryingX{Grid: g, Deltas: deltas}, nil
	default:
		return VaryingX{Deltas: deltas}, nil
	}
}
