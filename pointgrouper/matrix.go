package pointgrouper

import "github.com/icflow/layoutfmt/oasis"

// extractMatrix runs the bottom-up, left-to-right sparse-matrix scan
// over a sorted, duplicate-free point set, per spec.md's Point Grouper
// extraction order. It returns the patterns it found, the points it
// could not place (in original sorted order), and the running GCD
// accumulated over those leftover points.
func extractMatrix(sorted []oasis.Point) (placements []Placement, leftover []oasis.Point, grid int64) {
	a := buildArena(sorted)
	var leftoverIdx []int

	for s := 0; s < len(a.nodes); s++ {
		if a.nodes[s].allocated {
			continue
		}

		hNodes, hStep := walkLine(a, s, true)
		if emitted := tryGrowAndEmit(a, hNodes, hStep, true, &placements); emitted {
			continue
		}
		if len(hNodes) >= lineThreshold || (len(hNodes) > 1 && len(hNodes) == a.remaining) {
			placements = append(placements, Placement{
				Origin: a.nodes[s].Point,
				Rep:    oasis.UniformX{N: int64(len(hNodes)), Step: hStep},
			})
			a.allocateAll(hNodes)
			continue
		}

		vNodes, vStep := walkLine(a, s, false)
		if emitted := tryGrowAndEmit(a, vNodes, vStep, false, &placements); emitted {
			continue
		}
		if len(vNodes) >= lineThreshold || (len(vNodes) > 1 && len(vNodes) == a.remaining) {
			placements = append(placements, Placement{
				Origin: a.nodes[s].Point,
				Rep:    oasis.UniformY{N: int64(len(vNodes)), Step: vStep},
			})
			a.allocateAll(vNodes)
			continue
		}

		leftoverIdx = append(leftoverIdx, s)
		a.allocate(s)
		p := a.nodes[s].Point
		grid = gcd(grid, gcd(absInt64(p.X), absInt64(p.Y)))
	}

	leftover = make([]oasis.Point, len(leftoverIdx))
	for i, idx := range leftoverIdx {
		leftover[i] = a.nodes[idx].Point
	}
	return placements, leftover, grid
}

// walkLine follows right (horizontal) or up (vertical) links from s
// while the step between consecutive nodes is constant and positive and
// the next node is unallocated.
func walkLine(a *arena, s int, horizontal bool) (idxs []int, step int64) {
	idxs = []int{s}
	cur := s
	for {
		next := a.nodes[cur].right
		if !horizontal {
			next = a.nodes[cur].up
		}
		if next == -1 || a.nodes[next].allocated {
			break
		}
		var d int64
		if horizontal {
			d = a.nodes[next].X - a.nodes[cur].X
		} else {
			d = a.nodes[next].Y - a.nodes[cur].Y
		}
		if d <= 0 {
			break
		}
		if len(idxs) == 1 {
			step = d
		} else if d != step {
			break
		}
		idxs = append(idxs, next)
		cur = next
	}
	return idxs, step
}

// tryGrowAndEmit attempts to grow a line of >= 3 nodes into a matrix by
// stepping in the perpendicular direction: up from a horizontal line,
// right from a vertical one. It emits and allocates the matrix on
// success.
func tryGrowAndEmit(a *arena, line []int, lineStep int64, horizontal bool, placements *[]Placement) bool {
	if len(line) < 3 {
		return false
	}
	rows := [][]int{line}
	var crossStep int64
	cur := line
	for {
		next := make([]int, len(cur))
		ok := true
		var step int64
		for k, idx := range cur {
			var n int
			if horizontal {
				n = a.nodes[idx].up
			} else {
				n = a.nodes[idx].right
			}
			if n == -1 || a.nodes[n].allocated {
				ok = false
				break
			}
			var d int64
			var aligned bool
			if horizontal {
				d = a.nodes[n].Y - a.nodes[idx].Y
				aligned = a.nodes[n].X == a.nodes[idx].X
			} else {
				d = a.nodes[n].X - a.nodes[idx].X
				aligned = a.nodes[n].Y == a.nodes[idx].Y
			}
			if d <= 0 || !aligned {
				ok = false
				break
			}
			if k == 0 {
				step = d
			} else if d != step {
				ok = false
				break
			}
			next[k] = n
		}
		if !ok {
			break
		}
		crossStep = step
		rows = append(rows, next)
		cur = next
	}
	n, r := len(line), len(rows)
	if r <= 1 {
		return false
	}
	if n*r < matrixThreshold && n*r != a.remaining {
		return false
	}
	var rep oasis.Repetition
	origin := a.nodes[line[0]].Point
	if horizontal {
		rep = oasis.Matrix{Cols: int64(n), Rows: int64(r), ColStep: lineStep, RowStep: crossStep}
	} else {
		rep = oasis.Matrix{Cols: int64(r), Rows: int64(n), ColStep: crossStep, RowStep: lineStep}
	}
	*placements = append(*placements, Placement{Origin: origin, Rep: rep})
	for _, row := range rows {
		a.allocateAll(row)
	}
	return true
}
