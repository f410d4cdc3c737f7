package pipeline

// recordingBuilder captures every event a parser drives, for
// round-trip assertions in the parser/creator tests.
type recordingBuilder struct {
	NoopBuilder

	Meta        FileMeta
	Cells       []string
	Rectangles  []Rectangle
	Polygons    []Polygon
	Paths       []Path
	Trapezoids  []Trapezoid
	Circles     []Circle
	Texts       []Text
	Placements  []Placement
	XElements   []XElement
	XGeometries []XGeometry
	Properties  []Property
	EndedFile   bool
}

func (r *recordingBuilder) BeginFile(meta FileMeta) error {
	r.Meta = meta
	return nil
}

func (r *recordingBuilder) EndFile() error {
	r.EndedFile = true
	return nil
}

func (r *recordingBuilder) BeginCell(name string) error {
	r.Cells = append(r.Cells, name)
	return nil
}

func (r *recordingBuilder) Rectangle(v Rectangle) error { r.Rectangles = append(r.Rectangles, v); return nil }
func (r *recordingBuilder) Polygon(v Polygon) error     { r.Polygons = append(r.Polygons, v); return nil }
func (r *recordingBuilder) Path(v Path) error           { r.Paths = append(r.Paths, v); return nil }
func (r *recordingBuilder) Trapezoid(v Trapezoid) error { r.Trapezoids = append(r.Trapezoids, v); return nil }
func (r *recordingBuilder) Circle(v Circle) error       { r.Circles = append(r.Circles, v); return nil }
func (r *recordingBuilder) Text(v Text) error           { r.Texts = append(r.Texts, v); return nil }
func (r *recordingBuilder) Placement(v Placement) error { r.Placements = append(r.Placements, v); return nil }
func (r *recordingBuilder) XElement(v XElement) error   { r.XElements = append(r.XElements, v); return nil }
func (r *recordingBuilder) XGeometry(v XGeometry) error { r.XGeometries = append(r.XGeometries, v); return nil }
func (r *recordingBuilder) Property(v Property) error   { r.Properties = append(r.Properties, v); return nil }

var _ Builder = (*recordingBuilder)(nil)
