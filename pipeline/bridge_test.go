package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/icflow/layoutfmt/oasis"
)

func TestBoundaryPolygonRoundTrip(t *testing.T) {
	boundary := []oasis.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	poly := BoundaryToPolygon(boundary[:len(boundary)-1], 1, 2)
	if diff := cmp.Diff(boundary, PolygonToBoundary(poly)); diff != "" {
		t.Errorf("PolygonToBoundary (-want +got):\n%s", diff)
	}
}

func TestBoxRectangleRoundTrip(t *testing.T) {
	r := Rectangle{Layer: 3, Datatype: 4, X: 5, Y: 6, W: 20, H: 10}
	box := RectangleToBox(r)
	got, err := BoxToRectangle(box, r.Layer, r.Datatype)
	if err != nil {
		t.Fatalf("BoxToRectangle: %v", err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestBoxToRectangleRejectsNonAxisAligned(t *testing.T) {
	skewed := []oasis.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	if _, err := BoxToRectangle(skewed, 0, 0); err == nil {
		t.Fatal("expected an error for a non-axis-aligned BOX")
	}
}

func TestAREFToPlacementAxisAligned(t *testing.T) {
	origin := oasis.Point{X: 0, Y: 0}
	colCorner := oasis.Point{X: 30, Y: 0}
	rowCorner := oasis.Point{X: 0, Y: 20}
	p, err := AREFToPlacement("CELL", origin, colCorner, rowCorner, 3, 2, false, 1, 0)
	if err != nil {
		t.Fatalf("AREFToPlacement: %v", err)
	}
	m, ok := p.Repetition.(oasis.Matrix)
	if !ok {
		t.Fatalf("expected oasis.Matrix repetition, got %T", p.Repetition)
	}
	want := oasis.Matrix{Cols: 3, Rows: 2, ColStep: 10, RowStep: 10}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matrix (-want +got):\n%s", diff)
	}
}

func TestAREFToPlacementRejectsSkew(t *testing.T) {
	origin := oasis.Point{X: 0, Y: 0}
	colCorner := oasis.Point{X: 30, Y: 5} // not axis-aligned: colDY != 0
	rowCorner := oasis.Point{X: 0, Y: 20}
	if _, err := AREFToPlacement("CELL", origin, colCorner, rowCorner, 3, 2, false, 1, 0); err == nil {
		t.Fatal("expected an error for a skewed AREF")
	}
}

func TestAREFToPlacementRejectsNonPositiveColRow(t *testing.T) {
	origin := oasis.Point{X: 0, Y: 0}
	colCorner := oasis.Point{X: 30, Y: 0}
	rowCorner := oasis.Point{X: 0, Y: 20}
	if _, err := AREFToPlacement("CELL", origin, colCorner, rowCorner, 0, 2, false, 1, 0); err == nil {
		t.Fatal("expected an error for non-positive COLROW")
	}
}

func TestCTrapezoidTypeClassifiesPredefinedShapes(t *testing.T) {
	cases := []struct {
		name string
		t    Trapezoid
		kind byte
	}{
		{"rectangle", Trapezoid{W: 10, H: 10}, 0},
		{"type1", Trapezoid{W: 10, H: 10, DeltaA: 10}, 1},
		{"type2", Trapezoid{W: 10, H: 10, DeltaB: 10}, 2},
		{"type5-vertical", Trapezoid{W: 10, H: 10, DeltaA: 10, Vertical: true}, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kind, ok := CTrapezoidType(c.t)
			if !ok {
				t.Fatalf("expected a predefined CTRAPEZOID classification")
			}
			if kind != c.kind {
				t.Errorf("kind = %d, want %d", kind, c.kind)
			}
		})
	}
}

func TestCTrapezoidTypeRejectsArbitraryShape(t *testing.T) {
	tr := Trapezoid{W: 10, H: 10, DeltaA: 3, DeltaB: 7}
	if _, ok := CTrapezoidType(tr); ok {
		t.Fatal("expected no predefined CTRAPEZOID classification for an arbitrary shape")
	}
}

func TestTrapezoidCrossesDetectsOverlongSlant(t *testing.T) {
	tr := Trapezoid{W: 10, H: 10, DeltaA: 20, DeltaB: 0}
	if !TrapezoidCrosses(tr) {
		t.Fatal("expected DeltaA exceeding the span to be flagged as crossing")
	}
	ok := Trapezoid{W: 10, H: 10, DeltaA: 5, DeltaB: -5}
	if TrapezoidCrosses(ok) {
		t.Fatal("did not expect an in-range trapezoid to be flagged as crossing")
	}
}

func TestNodeToXGeometryPassesThroughLayerAndPoints(t *testing.T) {
	pts := []oasis.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	xg := NodeToXGeometry(7, 1, pts)
	if xg.Layer != 7 || xg.Datatype != 1 {
		t.Fatalf("unexpected layer/datatype: %+v", xg)
	}
	if xg.X != 1 || xg.Y != 2 {
		t.Fatalf("unexpected origin: %+v", xg)
	}
	if len(xg.Data) == 0 {
		t.Fatal("expected non-empty varint-packed point data")
	}
}
