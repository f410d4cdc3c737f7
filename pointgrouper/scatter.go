package pointgrouper

import "github.com/icflow/layoutfmt/oasis"

type shape int

const (
	shapeArbitrary shape = iota
	shapeVaryingX
	shapeVaryingY
)

// classify decides how a (Y,X)-sorted point run should be emitted: as a
// colinear run along one axis, or as a general arbitrary list.
func classify(points []oasis.Point) shape {
	if len(points) < 2 {
		return shapeArbitrary
	}
	sameY, nonDecX := true, true
	sameX, nonDecY := true, true
	for i := 1; i < len(points); i++ {
		if points[i].Y != points[0].Y {
			sameY = false
		}
		if points[i].X < points[i-1].X {
			nonDecX = false
		}
		if points[i].X != points[0].X {
			sameX = false
		}
		if points[i].Y < points[i-1].Y {
			nonDecY = false
		}
	}
	switch {
	case sameY && nonDecX:
		return shapeVaryingX
	case sameX && nonDecY:
		return shapeVaryingY
	default:
		return shapeArbitrary
	}
}

// emitScatter classifies points once and emits it as one (possibly
// overflow-split) repetition sequence.
func emitScatter(points []oasis.Point, grid uint64) []Placement {
	switch classify(points) {
	case shapeVaryingX:
		return emitVarying(points, grid, true)
	case shapeVaryingY:
		return emitVarying(points, grid, false)
	default:
		return emitArbitrary(points, grid)
	}
}

func emitVarying(points []oasis.Point, grid uint64, horizontal bool) []Placement {
	var placements []Placement
	i := 0
	for i < len(points) {
		origin := points[i]
		if i+1 == len(points) {
			placements = append(placements, Placement{Origin: origin})
			break
		}
		var deltas []int64
		prev := origin
		j := i + 1
		for j < len(points) {
			cand := points[j]
			if !pointInReach(origin, cand) || !pointInReach(prev, cand) {
				break
			}
			if horizontal {
				deltas = append(deltas, cand.X-prev.X)
			} else {
				deltas = append(deltas, cand.Y-prev.Y)
			}
			prev = cand
			j++
		}
		if len(deltas) == 0 {
			placements = append(placements, Placement{Origin: origin})
			i++
			continue
		}
		n := j - i
		useGrid := grid > 1 && n > 2
		var rep oasis.Repetition
		switch {
		case horizontal && useGrid:
			rep = oasis.GridVaryingX{Grid: grid, Deltas: deltas}
		case horizontal:
			rep = oasis.VaryingX{Deltas: deltas}
		case useGrid:
			rep = oasis.GridVaryingY{Grid: grid, Deltas: deltas}
		default:
			rep = oasis.VaryingY{Deltas: deltas}
		}
		placements = append(placements, Placement{Origin: origin, Rep: rep})
		i = j
	}
	return placements
}

func emitArbitrary(points []oasis.Point, grid uint64) []Placement {
	var placements []Placement
	i := 0
	for i < len(points) {
		origin := points[i]
		if i+1 == len(points) {
			placements = append(placements, Placement{Origin: origin})
			break
		}
		var deltas []oasis.Point
		prev := origin
		j := i + 1
		for j < len(points) {
			cand := points[j]
			if !pointInReach(origin, cand) || !pointInReach(prev, cand) {
				break
			}
			deltas = append(deltas, oasis.Point{X: cand.X - prev.X, Y: cand.Y - prev.Y})
			prev = cand
			j++
		}
		if len(deltas) == 0 {
			placements = append(placements, Placement{Origin: origin})
			i++
			continue
		}
		n := j - i
		var rep oasis.Repetition
		if grid > 1 && n > 2 {
			rep = oasis.GridArbitrary{Grid: grid, Deltas: deltas}
		} else {
			rep = oasis.Arbitrary{Deltas: deltas}
		}
		placements = append(placements, Placement{Origin: origin, Rep: rep})
		i = j
	}
	return placements
}

func pointInReach(a, b oasis.Point) bool {
	return oasis.CoordInReach(a.X, b.X) && oasis.CoordInReach(a.Y, b.Y)
}
