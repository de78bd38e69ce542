package tsp

import "sort"

// neighborOrder implements sort.Interface for a row of neighbors ordered by weight.
type neighborOrder struct {
	u   int
	n   int
	row []int
	w   []float64
}

func (no neighborOrder) Len() int { return len(no.row) }
func (no neighborOrder) Less(i, j int) bool {
	vi, vj := no.row[i], no.row[j]
	wi, wj := no.w[no.u*no.n+vi], no.w[no.u*no.n+vj]
	if wi == wj {
		return vi < vj
	}

	return wi < wj
}
func (no *neighborOrder) Swap(i, j int) { no.row[i], no.row[j] = no.row[j], no.row[i] }

// buildNeighborOrder produces, for each u, the list of v≠u sorted by ascending
// w[u→v] (then by v). Rows are computed once per solve and shared by every
// search node leaving u.
//
// Complexity: O(n² log n).
func buildNeighborOrder(w []float64, n int) [][]int {
	var u, v int
	order := make([][]int, n)
	for u = 0; u < n; u++ {
		row := make([]int, 0, n-1)
		for v = 0; v < n; v++ {
			if v != u {
				row = append(row, v)
			}
		}
		no := neighborOrder{u: u, n: n, row: row, w: w}
		sort.Sort(&no)
		order[u] = no.row
	}

	return order
}

// candidates yields the unvisited vertices of one search node, cheapest arc
// first. It is consumed once and cannot be rewound.
//
// visited is read on every call, so a vertex marked visited by a deeper
// branch and unmarked on return is seen correctly by the next call.
type candidates struct {
	row     []int
	visited []bool
	pos     int
}

func newCandidates(row []int, visited []bool) candidates {
	return candidates{row: row, visited: visited}
}

// next returns the next unvisited vertex, or false when the row is drained.
func (c *candidates) next() (int, bool) {
	var v int
	for c.pos < len(c.row) {
		v = c.row[c.pos]
		c.pos++
		if !c.visited[v] {
			return v, true
		}
	}

	return -1, false
}
