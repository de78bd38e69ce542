package tsp

import (
	"math"

	"github.com/katalvlaran/courierround/matrix"
)

// insertDelta is the cost change of inserting v between a and b.
// Replacing a missing arc a→b by two finite arcs is always an improvement.
func insertDelta(w []float64, n, a, v, b int) float64 {
	add := w[a*n+v] + w[v*n+b]
	old := w[a*n+b]
	if math.IsInf(old, 0) {
		if math.IsInf(add, 0) {
			return math.Inf(1)
		}

		return math.Inf(-1)
	}

	return add - old
}

// cheapestPosition returns the index p such that inserting v before tour[p]
// adds the least cost (ties go to the earliest position).
func cheapestPosition(w []float64, n int, tour []int, v int) (int, float64) {
	var (
		best  = math.Inf(1)
		pos   = 1
		p     int
		delta float64
	)
	for p = 1; p < len(tour); p++ {
		delta = insertDelta(w, n, tour[p-1], v, tour[p])
		if delta < best {
			best, pos = delta, p
		}
	}

	return pos, best
}

// insertAt returns tour with v inserted before index p.
func insertAt(tour []int, p, v int) []int {
	out := make([]int, 0, len(tour)+1)
	out = append(out, tour[:p]...)
	out = append(out, v)

	return append(out, tour[p:]...)
}

// nearestInsertion builds a closed tour from vertex 0: repeatedly take the
// open vertex closest to the partial tour (either direction) and insert it
// where it adds the least cost. Deterministic: ties go to the lowest index.
//
// Complexity: O(n²) selection bookkeeping + O(n²) insertions overall.
func nearestInsertion(w []float64, n int) []int {
	if n == 1 {
		return []int{0, 0}
	}
	var (
		inTour = make([]bool, n)
		near   = make([]float64, n) // distance to the partial tour
		tour   = make([]int, 0, n+1)
		u, v   int
		best   int
		d      float64
	)
	tour = append(tour, 0, 0)
	inTour[0] = true
	for v = 1; v < n; v++ {
		near[v] = math.Min(w[v], w[v*n])
	}

	for len(tour) < n+1 {
		best = -1
		for v = 1; v < n; v++ {
			if inTour[v] {
				continue
			}
			if best < 0 || near[v] < near[best] {
				best = v
			}
		}
		p, _ := cheapestPosition(w, n, tour, best)
		tour = insertAt(tour, p, best)
		inTour[best] = true
		for u = 1; u < n; u++ {
			if inTour[u] {
				continue
			}
			d = math.Min(w[u*n+best], w[best*n+u])
			if d < near[u] {
				near[u] = d
			}
		}
	}

	return tour
}

// CheapestInsertion returns where vertex v should enter tour at the least
// extra cost: the new tour is tour[:pos] + v + tour[pos:].
//
// tour must be a closed tour from 0 over dist's vertices other than v
// (it does not need to cover all of them); v must not already be on it.
//
// Errors: matrix sentinels as in BranchAndBound, ErrInvalidTour for a malformed
// tour or v, ErrIncompleteGraph if every position needs a missing arc.
func CheapestInsertion(dist matrix.Matrix, tour []int, v int) (pos int, delta float64, err error) {
	n, w, err := prefetch(dist)
	if err != nil {
		return 0, 0, err
	}
	if v <= 0 || v >= n || len(tour) < 2 || tour[0] != 0 || tour[len(tour)-1] != 0 {
		return 0, 0, ErrInvalidTour
	}
	var (
		seen = make([]bool, n)
		i    int
	)
	for i = 0; i < len(tour)-1; i++ {
		if tour[i] < 0 || tour[i] >= n || tour[i] == v || seen[tour[i]] {
			return 0, 0, ErrInvalidTour
		}
		seen[tour[i]] = true
	}

	pos, delta = cheapestPosition(w, n, tour, v)
	if math.IsInf(delta, 1) {
		return 0, 0, ErrIncompleteGraph
	}

	return pos, round1e9(delta), nil
}
