package oasis

// Optional distinguishes an unset modal slot from one holding the zero
// value, since OASIS records may omit a field and fall back to
// whatever the modal variable last held (or to a format-defined
// default) rather than to Go's zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

// Get returns the held value and whether one is set.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// GetOr returns the held value, or fallback if unset.
func (o Optional[T]) GetOr(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// IsSet reports whether a value has been stored.
func (o Optional[T]) IsSet() bool { return o.set }

// Set stores v.
func (o *Optional[T]) Set(v T) { o.value, o.set = v, true }

// Clear removes any stored value.
func (o *Optional[T]) Clear() { var zero T; o.value, o.set = zero, false }

// ModalState holds the modal variables carried between OASIS records
// within a cell, per spec.md §4.3's MODAL_VARIABLES. A new cell resets
// it; the records inside a CBLOCK share the surrounding state.
type ModalState struct {
	Repetition Optional[Repetition]

	PlacementX Optional[int64]
	PlacementY Optional[int64]
	PlacementCell Optional[string]
	PlacementCellRef Optional[uint64]
	PlacementMag Optional[Real]
	PlacementAngle Optional[Real]
	PlacementFlip Optional[bool]

	Layer    Optional[uint64]
	Datatype Optional[uint64]

	TextString    Optional[string]
	TextStringRef Optional[uint64]
	TextLayer     Optional[uint64]
	TextDatatype  Optional[uint64]
	TextX         Optional[int64]
	TextY         Optional[int64]

	GeometryW Optional[uint64]
	GeometryH Optional[uint64]
	GeometryX Optional[int64]
	GeometryY Optional[int64]

	PolygonPointList Optional[[]Point]

	PathHalfwidth     Optional[uint64]
	PathStartExt      Optional[int64]
	PathEndExt        Optional[int64]
	PathPointList     Optional[[]Point]

	CTrapezoidType Optional[byte]

	CircleRadius Optional[uint64]

	LastPropertyName  Optional[string]
	LastPropertyIsStd Optional[bool]
	LastValueList     Optional[[]Real]

	XYAbsolute bool // true once an XYABSOLUTE record is seen; false after XYRELATIVE
}

// Reset clears every modal variable; the pipeline's OASIS parser and
// creator call it at the start of each cell.
func (m *ModalState) Reset() {
	*m = ModalState{}
}
