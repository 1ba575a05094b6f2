package engine

import "sort"

// sweep is the shared routine behind SCAN, C-SCAN, LOOK and C-LOOK.
//
// addBounds makes the head touch the edge it is travelling towards before
// turning around, but only when requests remain on the other side. circular
// makes the head resume from the far end of the other side (touching the
// opposite edge first when addBounds is set) instead of reversing in place.
func sweep(requests []int, head int, dir Direction, numTracks int, addBounds, circular bool) []int {
	var below, above []int
	for _, r := range requests {
		if r < head {
			below = append(below, r)
		} else {
			above = append(above, r)
		}
	}
	// Both halves are ordered nearest-first.
	sort.Sort(sort.Reverse(sort.IntSlice(below)))
	sort.Ints(above)

	ahead, behind := above, below
	edge, otherEdge := numTracks-1, 0
	if dir == Down {
		ahead, behind = below, above
		edge, otherEdge = 0, numTracks-1
	}

	seq := make([]int, 0, len(requests)+3)
	seq = append(seq, head)
	seq = append(seq, ahead...)
	if addBounds && len(behind) > 0 && (len(ahead) == 0 || ahead[len(ahead)-1] != edge) {
		seq = append(seq, edge)
	}
	if len(behind) == 0 {
		return seq
	}
	if !circular {
		return append(seq, behind...)
	}
	if addBounds {
		seq = append(seq, otherEdge)
	}
	for i := len(behind) - 1; i >= 0; i-- {
		seq = append(seq, behind[i])
	}
	return seq
}
