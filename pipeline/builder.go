// Package pipeline drives the two parsers (GDSII, OASIS) and two
// creators over the shared Builder visitor interface, resolving modal
// variables and cross-format semantics along the way.
package pipeline

import "github.com/icflow/layoutfmt/oasis"

// FileMeta carries the library-level attributes common to both formats.
type FileMeta struct {
	LibName  string
	UserUnit float64
	DBUnit   float64
}

// Rectangle is a fully resolved axis-aligned box.
type Rectangle struct {
	Layer, Datatype uint64
	X, Y            int64
	W, H            uint64
	Repetition      oasis.Repetition
}

// Polygon is a fully resolved closed point list.
type Polygon struct {
	Layer, Datatype uint64
	Points          []oasis.Point
	Repetition      oasis.Repetition
}

// Path is a fully resolved polyline with width and end treatment.
type Path struct {
	Layer, Datatype   uint64
	Halfwidth         uint64
	StartExt, EndExt  int64
	Points            []oasis.Point
	Repetition        oasis.Repetition
}

// Trapezoid is a fully resolved OASIS-style trapezoid.
type Trapezoid struct {
	Layer, Datatype uint64
	X, Y            int64
	W, H            uint64
	DeltaA, DeltaB  int64
	Vertical        bool
	Repetition      oasis.Repetition
}

// Circle is a fully resolved circle.
type Circle struct {
	Layer, Datatype uint64
	X, Y            int64
	Radius          uint64
	Repetition      oasis.Repetition
}

// Text is a fully resolved text annotation.
type Text struct {
	TextLayer, TextType uint64
	X, Y                int64
	String              string
	Repetition          oasis.Repetition
}

// Placement is a fully resolved cell instance (GDSII SREF/AREF, OASIS
// PLACEMENT).
type Placement struct {
	Cell       string
	X, Y       int64
	FlipY      bool
	Mag, Angle float64
	Repetition oasis.Repetition
}

// XElement is an opaque GDSII NODE or OASIS XELEMENT passthrough.
type XElement struct {
	Attribute uint64
	Data      []byte
}

// XGeometry is a fully resolved OASIS XGEOMETRY, also the target of the
// GDSII NODE → XGEOMETRY mapping.
type XGeometry struct {
	Layer, Datatype uint64
	Attribute       uint64
	X, Y            int64
	Data            []byte
	Repetition      oasis.Repetition
}

// Property is a name/value attribute attached to the element or cell
// most recently opened. GDSII properties carry a numeric attribute
// number (in Name, decimal) and a single string payload (StringValue);
// OASIS properties carry a name and a list of typed values (Values).
type Property struct {
	Name        string
	Values      []oasis.Real
	StringValue string
	IsStandard  bool
}

// Builder is the event sink every parser drives and every creator
// implements, per spec.md §4.5 and §9's "visitor over a tagged enum of
// events" rework guidance. Embed NoopBuilder to implement only the
// methods a particular consumer cares about.
type Builder interface {
	BeginFile(meta FileMeta) error
	EndFile() error

	BeginCell(name string) error
	EndCell() error

	RegisterName(kind oasis.NameKind, name string, ref uint64) error

	Rectangle(Rectangle) error
	Polygon(Polygon) error
	Path(Path) error
	Trapezoid(Trapezoid) error
	Circle(Circle) error
	Text(Text) error
	Placement(Placement) error
	XElement(XElement) error
	XGeometry(XGeometry) error

	Property(Property) error
}

// NoopBuilder supplies a default no-op for every Builder method.
type NoopBuilder struct{}

func (NoopBuilder) BeginFile(FileMeta) error                    { return nil }
func (NoopBuilder) EndFile() error                              { return nil }
func (NoopBuilder) BeginCell(string) error                      { return nil }
func (NoopBuilder) EndCell() error                              { return nil }
func (NoopBuilder) RegisterName(oasis.NameKind, string, uint64) error { return nil }
func (NoopBuilder) Rectangle(Rectangle) error                   { return nil }
func (NoopBuilder) Polygon(Polygon) error                       { return nil }
func (NoopBuilder) Path(Path) error                             { return nil }
func (NoopBuilder) Trapezoid(Trapezoid) error                   { return nil }
func (NoopBuilder) Circle(Circle) error                         { return nil }
func (NoopBuilder) Text(Text) error                             { return nil }
func (NoopBuilder) Placement(Placement) error                   { return nil }
func (NoopBuilder) XElement(XElement) error                     { return nil }
func (NoopBuilder) XGeometry(XGeometry) error                   { return nil }
func (NoopBuilder) Property(Property) error                     { return nil }
