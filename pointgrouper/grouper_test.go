package pointgrouper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/icflow/layoutfmt/oasis"
)

func pt(x, y int64) oasis.Point { return oasis.Point{X: x, Y: y} }

func coverage(placements []Placement) []oasis.Point {
	var out []oasis.Point
	for _, p := range placements {
		if p.Rep == nil {
			out = append(out, p.Origin)
			continue
		}
		out = append(out, p.Rep.Points(p.Origin)...)
	}
	return out
}

func asMultiset(points []oasis.Point) map[oasis.Point]int {
	m := make(map[oasis.Point]int, len(points))
	for _, p := range points {
		m[p]++
	}
	return m
}

func TestSinglePointHasNoRepetition(t *testing.T) {
	got := Group([]oasis.Point{pt(0, 0)}, L2, false)
	if len(got) != 1 || got[0].Rep != nil || got[0].Origin != pt(0, 0) {
		t.Fatalf("Group(single point) = %+v", got)
	}
}

func TestMatrixExtraction(t *testing.T) {
	var points []oasis.Point
	for row := int64(0); row < 5; row++ {
		for col := int64(0); col < 8; col++ {
			points = append(points, pt(col*10, row*20))
		}
	}
	got := Group(points, L2, false)
	if len(got) != 1 {
		t.Fatalf("expected a single Matrix placement, got %d: %+v", len(got), got)
	}
	m, ok := got[0].Rep.(oasis.Matrix)
	if !ok {
		t.Fatalf("expected oasis.Matrix, got %T", got[0].Rep)
	}
	want := oasis.Matrix{Cols: 8, Rows: 5, ColStep: 10, RowStep: 20}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Matrix (-want +got):\n%s", diff)
	}
	if got[0].Origin != pt(0, 0) {
		t.Errorf("origin = %+v, want (0,0)", got[0].Origin)
	}
}

func TestUniformXExtraction(t *testing.T) {
	points := []oasis.Point{pt(0, 0), pt(10, 0), pt(20, 0), pt(30, 0), pt(40, 0), pt(50, 0)}
	got := Group(points, L2, false)
	if len(got) != 1 {
		t.Fatalf("expected a single UniformX placement, got %+v", got)
	}
	u, ok := got[0].Rep.(oasis.UniformX)
	if !ok {
		t.Fatalf("expected oasis.UniformX, got %T", got[0].Rep)
	}
	if u.N != 6 || u.Step != 10 {
		t.Errorf("UniformX = %+v, want {N:6 Step:10}", u)
	}
}

func TestTwoPointVaryingXHasNoGrid(t *testing.T) {
	points := []oasis.Point{pt(0, 0), pt(5, 0)}
	got := Group(points, L2, false)
	if len(got) != 1 {
		t.Fatalf("expected a single placement, got %+v", got)
	}
	v, ok := got[0].Rep.(oasis.VaryingX)
	if !ok {
		t.Fatalf("expected ungridded oasis.VaryingX for n<=2, got %T", got[0].Rep)
	}
	if len(v.Deltas) != 1 || v.Deltas[0] != 5 {
		t.Errorf("VaryingX.Deltas = %v, want [5]", v.Deltas)
	}
}

func TestMatrixPlusStrayPoint(t *testing.T) {
	var points []oasis.Point
	for row := int64(0); row < 5; row++ {
		for col := int64(0); col < 8; col++ {
			points = append(points, pt(col*10, row*20))
		}
	}
	points = append(points, pt(1000, 1000))
	got := Group(points, L2, false)
	if len(got) != 2 {
		t.Fatalf("expected matrix + stray point, got %d placements: %+v", len(got), got)
	}
	_, isMatrix := got[0].Rep.(oasis.Matrix)
	if !isMatrix {
		t.Fatalf("first placement should be the Matrix, got %T", got[0].Rep)
	}
	stray := got[1]
	if stray.Rep != nil || stray.Origin != pt(1000, 1000) {
		t.Errorf("stray placement = %+v, want a bare point at (1000,1000)", stray)
	}
}

func TestDuplicatePointsRetainedAsMultiset(t *testing.T) {
	points := []oasis.Point{pt(0, 0), pt(0, 0)}
	got := Group(points, L2, false)
	total := asMultiset(coverage(got))
	want := asMultiset(points)
	if diff := cmp.Diff(want, total); diff != "" {
		t.Errorf("coverage multiset (-want +got):\n%s", diff)
	}
}

func TestDuplicatePointsDroppedWhenRequested(t *testing.T) {
	points := []oasis.Point{pt(0, 0), pt(0, 0), pt(10, 0)}
	got := Group(points, L2, true)
	covered := coverage(got)
	if len(covered) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 points, got %v", covered)
	}
}

func TestGrouperCoveragePropertyAcrossLevels(t *testing.T) {
	points := []oasis.Point{
		pt(0, 0), pt(10, 0), pt(20, 0), pt(0, 20), pt(10, 20), pt(20, 20),
		pt(500, 500), pt(-30, -40), pt(7, 7),
	}
	for _, level := range []Level{L0, L1, L2} {
		got := Group(points, level, false)
		gotSet := asMultiset(coverage(got))
		wantSet := asMultiset(points)
		if diff := cmp.Diff(wantSet, gotSet); diff != "" {
			t.Errorf("level %v coverage (-want +got):\n%s", level, diff)
		}
		for _, p := range got {
			if p.Rep == nil {
				continue
			}
			pts := asMultiset(p.Rep.Points(p.Origin))
			for k := range pts {
				if _, ok := gotSet[k]; !ok {
					t.Errorf("level %v: placement point %+v missing from overall set", level, k)
				}
			}
		}
	}
}

func TestGrouperSizeMonotonicity(t *testing.T) {
	var points []oasis.Point
	for row := int64(0); row < 6; row++ {
		for col := int64(0); col < 9; col++ {
			points = append(points, pt(col*10, row*20))
		}
	}
	n0 := len(Group(points, L0, false))
	n1 := len(Group(points, L1, false))
	n2 := len(Group(points, L2, false))
	if !(n2 <= n1 && n1 <= n0) {
		t.Errorf("expected placement counts to shrink L0>=L1>=L2, got L0=%d L1=%d L2=%d", n0, n1, n2)
	}
}

func TestOverflowSplitsAtFirstOffendingPoint(t *testing.T) {
	points := []oasis.Point{pt(0, 0), pt(1<<31-1, 0), pt(1<<31, 0)}
	got := Group(points, L1, false)
	if len(got) < 2 {
		t.Fatalf("expected the overflowing delta to force a split, got %+v", got)
	}
	for _, p := range got {
		if p.Rep == nil {
			continue
		}
		for _, q := range p.Rep.Points(p.Origin) {
			if !oasis.CoordInReach(p.Origin.X, q.X) {
				t.Errorf("placement %+v exceeds int32 delta reach from its origin", p)
			}
		}
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if got := Group(nil, L2, false); got != nil {
		t.Errorf("Group(nil) = %+v, want nil", got)
	}
}
