// Package pointgrouper implements the sparse-matrix pattern extractor
// that partitions a set of 2-D integer points into a near-minimal
// sequence of OASIS repetitions.
package pointgrouper

import (
	"golang.org/x/exp/slices"

	"github.com/icflow/layoutfmt/oasis"
)

// Level selects how much pattern-recognition work the grouper does.
type Level int

const (
	// L0 emits a single Arbitrary repetition with no sorting or analysis.
	L0 Level = iota
	// L1 sorts, optionally drops duplicates, and classifies the whole
	// set as one VaryingX/VaryingY/(Grid)Arbitrary repetition.
	L1
	// L2 runs the sparse-matrix extractor first, falling back to L1
	// behavior for whatever points it could not place in a pattern.
	L2
)

const (
	matrixThreshold = 8
	lineThreshold   = 6
	matrixAttemptAt = 6 // min(matrixThreshold, lineThreshold)
)

// Placement pairs a repetition with the absolute origin it is anchored
// at. Rep is nil when Origin is the only point in this placement — the
// grouper never wraps a single point in a one-element repetition.
type Placement struct {
	Origin oasis.Point
	Rep    oasis.Repetition
}

// Group partitions points into a sequence of placements whose union
// (as a multiset when deleteDuplicates is false, as a set when true)
// equals the input.
func Group(points []oasis.Point, level Level, deleteDuplicates bool) []Placement {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return []Placement{{Origin: points[0]}}
	}
	switch level {
	case L0:
		return emitArbitrary(points, 0)
	case L1:
		return groupL1(points, deleteDuplicates)
	default:
		return groupL2(points, deleteDuplicates)
	}
}

func groupL1(points []oasis.Point, deleteDuplicates bool) []Placement {
	sorted := sortedCopy(points)
	if deleteDuplicates {
		sorted = dedup(sorted)
	}
	if len(sorted) == 0 {
		return nil
	}
	if len(sorted) == 1 {
		return []Placement{{Origin: sorted[0]}}
	}
	grid := gridOf(sorted)
	return emitScatter(sorted, grid)
}

func groupL2(points []oasis.Point, deleteDuplicates bool) []Placement {
	sorted := sortedCopy(points)
	unique, dupes := splitDuplicates(sorted)
	if deleteDuplicates {
		dupes = nil
	}
	if len(unique) < matrixAttemptAt {
		bucket := sortedCopy(append(append([]oasis.Point{}, unique...), dupes...))
		if len(bucket) == 0 {
			return nil
		}
		if len(bucket) == 1 {
			return []Placement{{Origin: bucket[0]}}
		}
		return emitScatter(bucket, gridOf(bucket))
	}

	placements, leftover, grid := extractMatrix(unique)
	bucket := append(leftover, dupes...)
	for _, p := range dupes {
		grid = gcd(grid, gcd(absInt64(p.X), absInt64(p.Y)))
	}
	if len(bucket) == 0 {
		return placements
	}
	bucket = sortedCopy(bucket)
	if len(bucket) == 1 {
		return append(placements, Placement{Origin: bucket[0]})
	}
	return append(placements, emitScatter(bucket, uint64(absInt64(grid)))...)
}

func sortedCopy(points []oasis.Point) []oasis.Point {
	out := append([]oasis.Point(nil), points...)
	slices.SortFunc(out, func(a, b oasis.Point) bool {
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

// dedup removes exact repeats from a (Y,X)-sorted slice, keeping the
// first occurrence of each position.
func dedup(sorted []oasis.Point) []oasis.Point {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// splitDuplicates separates a (Y,X)-sorted slice into its unique
// positions (first occurrence, in sorted order) and the extra copies of
// positions that repeat (in encounter order).
func splitDuplicates(sorted []oasis.Point) (unique, dupes []oasis.Point) {
	if len(sorted) == 0 {
		return nil, nil
	}
	unique = append(unique, sorted[0])
	for _, p := range sorted[1:] {
		if p == unique[len(unique)-1] {
			dupes = append(dupes, p)
		} else {
			unique = append(unique, p)
		}
	}
	return unique, dupes
}

func gridOf(points []oasis.Point) uint64 {
	var g int64
	for _, p := range points {
		g = gcd(g, p.X)
		g = gcd(g, p.Y)
	}
	return uint64(absInt64(g))
}
