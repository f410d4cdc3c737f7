package pipeline

import "github.com/icflow/layoutfmt/oasis"

// BoundaryToPolygon maps a GDSII BOUNDARY's point list onto an OASIS
// POLYGON. The two formats agree on a closed point list; GDSII repeats
// the first point last while OASIS does not, so the caller passes the
// de-duplicated list.
func BoundaryToPolygon(points []oasis.Point, layer, datatype uint64) Polygon {
	return Polygon{Layer: layer, Datatype: datatype, Points: points}
}

// PolygonToBoundary is BoundaryToPolygon's inverse: GDSII BOUNDARY
// requires the closing point to repeat the first.
func PolygonToBoundary(p Polygon) []oasis.Point {
	if len(p.Points) == 0 {
		return nil
	}
	return append(append([]oasis.Point{}, p.Points...), p.Points[0])
}

// GDSPathExtensions derives the OASIS start/end extensions for a GDSII
// PATH given its PATHTYPE, per spec.md §4.5: PATHTYPE 4 preserves the
// explicit BGNEXTN/ENDEXTN values; type 0 (flush, and anything outside
// {0,1,2,4}, which §6 already normalizes to 0) has no extension; type 2
// (square, extended by half width) and the round-ended type 1, which
// OASIS has no distinct representation for, both extend by half width.
func GDSPathExtensions(pathType int16, halfwidth uint64, bgnExt, endExt int32) (start, end int64) {
	switch pathType {
	case 4:
		return int64(bgnExt), int64(endExt)
	case 1, 2:
		return int64(halfwidth), int64(halfwidth)
	default:
		return 0, 0
	}
}

// PathToOASISPath builds the resolved OASIS Path from a GDSII PATH's
// fields.
func PathToOASISPath(points []oasis.Point, layer, datatype uint64, width int32, pathType int16, bgnExt, endExt int32) Path {
	halfwidth := uint64(absInt64(int64(width))) / 2
	start, end := GDSPathExtensions(pathType, halfwidth, bgnExt, endExt)
	return Path{Layer: layer, Datatype: datatype, Halfwidth: halfwidth, StartExt: start, EndExt: end, Points: points}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// BoxToRectangle converts a GDSII BOX's 5-point closed rectangle into an
// OASIS RECTANGLE. It is an error if the 4 distinct corners do not
// describe an axis-aligned rectangle.
func BoxToRectangle(points []oasis.Point, layer, boxtype uint64) (Rectangle, error) {
	if len(points) < 4 {
		return Rectangle{}, newError(FormatError, "", 0, "", "BOX has %d points, need at least 4", len(points))
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, p := range points {
		onVerticalEdge := p.X == minX || p.X == maxX
		onHorizontalEdge := p.Y == minY || p.Y == maxY
		if !onVerticalEdge || !onHorizontalEdge {
			return Rectangle{}, newError(FormatError, "", 0, "", "BOX corners %v do not describe an axis-aligned rectangle", points)
		}
	}
	return Rectangle{
		Layer: layer, Datatype: boxtype,
		X: minX, Y: minY,
		W: uint64(maxX - minX), H: uint64(maxY - minY),
	}, nil
}

// RectangleToBox is BoxToRectangle's inverse.
func RectangleToBox(r Rectangle) []oasis.Point {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+int64(r.W), r.Y+int64(r.H)
	return []oasis.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
}

// SREFToPlacement converts a GDSII SREF into a repetition-free OASIS
// PLACEMENT.
func SREFToPlacement(cell string, x, y int64, flip bool, mag, angle float64) Placement {
	return Placement{Cell: cell, X: x, Y: y, FlipY: flip, Mag: mag, Angle: angle}
}

// AREFToPlacement synthesizes the Matrix repetition an AREF's three XY
// points and COLROW counts describe, per spec.md §4.5. It is an error
// (matching spec.md §9's documented source behavior) if the two step
// vectors are not axis-aligned.
func AREFToPlacement(cell string, origin, colCorner, rowCorner oasis.Point, cols, rows int64, flip bool, mag, angle float64) (Placement, error) {
	if cols <= 0 || rows <= 0 {
		return Placement{}, newError(FormatError, "", 0, "", "AREF COLROW must be positive, got cols=%d rows=%d", cols, rows)
	}
	colDX, colDY := colCorner.X-origin.X, colCorner.Y-origin.Y
	rowDX, rowDY := rowCorner.X-origin.X, rowCorner.Y-origin.Y
	if colDY != 0 || rowDX != 0 {
		return Placement{}, newError(FormatError, "", 0, "", "AREF (%v,%v,%v) is not axis-aligned", origin, colCorner, rowCorner)
	}
	colStep, rowStep := colDX/cols, rowDY/rows
	rep := oasis.Matrix{Cols: cols, Rows: rows, ColStep: colStep, RowStep: rowStep}
	return Placement{Cell: cell, X: origin.X, Y: origin.Y, FlipY: flip, Mag: mag, Angle: angle, Repetition: rep}, nil
}

// nodeReservedAttribute is the XGEOMETRY attribute value reserved for
// GDSII NODE passthrough, distinguishing it from attributes a native
// OASIS XGEOMETRY producer would choose.
const nodeReservedAttribute = 0xffff

// NodeToXGeometry maps a GDSII NODE element onto an OASIS XGEOMETRY
// carrying the node's type and points as opaque payload.
func NodeToXGeometry(layer, nodetype uint64, points []oasis.Point) XGeometry {
	data := make([]byte, 0, len(points)*16)
	for _, p := range points {
		data = appendVarint(data, uint64(p.X))
		data = appendVarint(data, uint64(p.Y))
	}
	origin := oasis.Point{}
	if len(points) > 0 {
		origin = points[0]
	}
	return XGeometry{Layer: layer, Datatype: nodetype, Attribute: nodeReservedAttribute, X: origin.X, Y: origin.Y, Data: data}
}

func appendVarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// CTrapezoidType classifies a fully-specified trapezoid as a compact
// CTRAPEZOID shape, which needs only width and/or height plus the type
// number to reconstruct the two slant deltas. It recognises nine shapes,
// numbered 0–8 here: the plain rectangle (both deltas 0) and the eight
// trapezoids with one slant edge spanning the full height (or width, if
// vertical). The other predefined CTRAPEZOID shapes are not recognised.
// It returns ok=false when none of the nine reproduces the given deltas
// exactly, in which case the creator falls back to a general TRAPEZOID.
func CTrapezoidType(t Trapezoid) (kind byte, ok bool) {
	w, h := int64(t.W), int64(t.H)
	switch {
	case t.DeltaA == 0 && t.DeltaB == 0:
		return 0, true
	case t.DeltaA == h && t.DeltaB == 0 && !t.Vertical:
		return 1, true
	case t.DeltaA == 0 && t.DeltaB == h && !t.Vertical:
		return 2, true
	case t.DeltaA == -h && t.DeltaB == 0 && !t.Vertical:
		return 3, true
	case t.DeltaA == 0 && t.DeltaB == -h && !t.Vertical:
		return 4, true
	case t.DeltaA == w && t.DeltaB == 0 && t.Vertical:
		return 5, true
	case t.DeltaA == 0 && t.DeltaB == w && t.Vertical:
		return 6, true
	case t.DeltaA == -w && t.DeltaB == 0 && t.Vertical:
		return 7, true
	case t.DeltaA == 0 && t.DeltaB == -w && t.Vertical:
		return 8, true
	default:
		return 0, false
	}
}

// TrapezoidCrosses reports the slant-edge-crossing fault spec.md §7
// defines as a fatal element-level geometry error.
func TrapezoidCrosses(t Trapezoid) bool {
	var span int64
	if t.Vertical {
		span = int64(t.W)
	} else {
		span = int64(t.H)
	}
	return absInt64(t.DeltaA) > span || absInt64(t.DeltaB) > span || absInt64(t.DeltaA-t.DeltaB) > span
}
