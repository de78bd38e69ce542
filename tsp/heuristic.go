package tsp

import "github.com/katalvlaran/courierround/matrix"

// HeuristicSolve runs the inexact strategy: a nearest-insertion tour polished
// by local search seeds the same depth-first engine as BranchAndBound, which
// additionally skips any candidate whose arc crosses a fixed arc of the
// partial path (see crosses). The filter may cut the optimum, so results
// carry StatusHeuristic.
//
// If the filtered search proves nothing feasible (possible on sparse matrices
// where the seed fails), the search is repeated without the filter before
// reporting ErrIncompleteGraph.
func HeuristicSolve(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	n, w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	if n <= 2 {
		res, err := trivialResult(w, n)
		res.Status = StatusHeuristic

		return res, err
	}

	s, err := newSearch(w, n, opts)
	if err != nil {
		return Result{}, err
	}
	s.filter = true
	s.seed(opts.LocalSearchMaxIters)
	res, err := s.run(StatusHeuristic)
	if err != ErrIncompleteGraph {
		return res, err
	}

	// Fallback keeps the original deadline.
	s.filter = false
	s.steps = 0

	return s.run(StatusHeuristic)
}
