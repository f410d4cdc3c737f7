package pointgrouper

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/icflow/layoutfmt/oasis"
)

// node is one entry in the sparse-matrix arena. right links to the next
// node in the same row (same Y, next X), up links to the next node in
// the same column (same X, next Y); both are -1 when absent.
type node struct {
	oasis.Point
	up, right int
	allocated bool
}

// arena is the sparse matrix built over a sorted, duplicate-free point
// set: per spec, if a node is unallocated then every node reachable via
// repeated up links is also unallocated, because extraction proceeds
// bottom-up and only allocates at or above the current cursor.
type arena struct {
	nodes     []node
	remaining int
}

// buildArena assumes points is sorted by (Y, X) ascending with no
// duplicate positions.
func buildArena(points []oasis.Point) *arena {
	nodes := make([]node, len(points))
	for i, p := range points {
		nodes[i] = node{Point: p, up: -1, right: -1}
	}
	// right: within each maximal run of equal Y, link consecutive indices.
	for i := 0; i < len(nodes); {
		j := i
		for j+1 < len(nodes) && nodes[j+1].Y == nodes[i].Y {
			nodes[j].right = j + 1
			j++
		}
		i = j + 1
	}
	// up: column tracking keyed by X; since the input is sorted by Y
	// ascending, the indices collected per X arrive in Y-ascending order.
	cols := make(map[int64][]int, len(nodes))
	for i, n := range nodes {
		cols[n.X] = append(cols[n.X], i)
	}
	xs := maps.Keys(cols)
	slices.Sort(xs)
	for _, x := range xs {
		idxs := cols[x]
		for k := 0; k+1 < len(idxs); k++ {
			nodes[idxs[k]].up = idxs[k+1]
		}
	}
	return &arena{nodes: nodes, remaining: len(nodes)}
}

func (a *arena) allocate(idx int) {
	if !a.nodes[idx].allocated {
		a.nodes[idx].allocated = true
		a.remaining--
	}
}

func (a *arena) allocateAll(idxs []int) {
	for _, idx := range idxs {
		a.allocate(idx)
	}
}
