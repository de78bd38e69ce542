package tsp

import "math"

// precomputeMinima computes per-vertex minOut/minIn excluding self-loops.
// A vertex with no finite outgoing or incoming arc cannot lie on any cycle:
// the instance is infeasible and ErrIncompleteGraph is returned.
func precomputeMinima(w []float64, n int) (minOut, minIn []float64, err error) {
	var (
		inf    = math.Inf(1)
		v, u   int
		mo, mi float64
	)
	minOut = make([]float64, n)
	minIn = make([]float64, n)
	for v = 0; v < n; v++ {
		mo, mi = inf, inf
		for u = 0; u < n; u++ {
			if u == v {
				continue
			}
			if w[v*n+u] < mo {
				mo = w[v*n+u]
			}
			if w[u*n+v] < mi {
				mi = w[u*n+v]
			}
		}
		if math.IsInf(mo, 0) || math.IsInf(mi, 0) {
			return nil, nil, ErrIncompleteGraph
		}
		minOut[v] = mo
		minIn[v] = mi
	}

	return minOut, minIn, nil
}

// lowerBound implements the degree-1 relaxation (admissible for asymmetric costs).
// In a Hamiltonian cycle each vertex has out-degree 1 and in-degree 1. For vertices
// whose outgoing/incoming arc is not yet fixed by the partial path, the eventual
// arc costs at least minOut[v] / minIn[v]. Therefore:
//
//	LB_extra ≥ max( sum(minOut over out-open), sum(minIn over in-open) )
//
// and LB = costSoFar + LB_extra never exceeds the cost of any completion.
//
// Outgoing is fixed for every visited vertex except last; incoming is fixed
// for every visited vertex except the depot.
func (s *search) lowerBound(costSoFar float64, last int) float64 {
	if !s.useBound {
		return costSoFar
	}
	var (
		sumOut, sumIn float64
		v             int
	)
	for v = 0; v < s.n; v++ {
		if s.visited[v] {
			if v == last {
				sumOut += s.minOut[v]
			}
			if v == 0 {
				sumIn += s.minIn[v]
			}
			continue
		}
		sumOut += s.minOut[v]
		sumIn += s.minIn[v]
	}
	if sumIn > sumOut {
		return costSoFar + sumIn
	}

	return costSoFar + sumOut
}

// crosses reports whether the arc last→next is dominated by an uncrossing
// exchange with an already fixed arc a→b of the partial path:
//
//	w(last,next) + w(a,b) > w(last,a) + w(next,b)
//
// Used by the heuristic strategy only; it can cut optimal branches.
func (s *search) crosses(last, next, depth int) bool {
	var (
		i    int
		a, b int
		lhs  = s.at(last, next)
	)
	for i = 0; i+1 < depth; i++ {
		a, b = s.path[i], s.path[i+1]
		if b == last {
			break
		}
		if lhs+s.at(a, b) > s.at(last, a)+s.at(next, b) {
			return true
		}
	}

	return false
}
