// Package tsp - Branch-and-Bound (exact search with admissible lower bounds).
//
// BranchAndBound enumerates Hamiltonian cycles from the depot (vertex 0) via a
// depth-first Branch-and-Bound search with deterministic branching, an
// admissible lower bound, and an anytime time budget. Costs may be asymmetric.
//
// Outline:
//  1. Prefetch the matrix into a dense buffer (strict sentinels, +Inf allowed).
//  2. Optionally seed the incumbent with nearest insertion polished by local
//     search. A good upper bound strengthens pruning; the optimum is unchanged.
//  3. DFS with the degree-1 relaxation lower bound (bound.go). Prune whenever
//     LB ≥ UB − eps.
//  4. Branching order: from the current "last", the candidate iterator yields
//     unvisited v in ascending w[last→v] (index tiebreak).
//  5. Time budget: the deadline is tested on the first expansion and then every
//     4096 expansions. When it passes, every frame unwinds and the incumbent is
//     returned with StatusTimeLimited.
//
// All mutable search state (path, visited, incumbent) lives in one search value
// created per call, so concurrent solves never share anything.
//
// Complexity:
//   - Worst case exponential in n. Practical speed comes from pruning.
//   - Per node: O(n) bound + O(1) state updates.
//   - Memory: O(n²) for precomputes (minima, neighbor orders), O(n) for the path.
package tsp

import (
	"math"
	"time"

	"github.com/katalvlaran/courierround/matrix"
)

// deadlineMask sets the spacing of deadline checks (every 4096 expansions).
const deadlineMask = 4095

// search holds everything one solve needs. It is never shared across solves.
type search struct {
	// Configuration / policy
	n        int
	eps      float64
	useBound bool
	filter   bool // heuristic crossing filter

	// Time budget
	useDeadline bool
	deadline    time.Time
	steps       int64
	timedOut    bool

	// Dense weights w[u*n+v] and precomputes
	w      []float64
	minOut []float64
	minIn  []float64
	order  [][]int

	// Current partial path
	visited []bool
	path    []int

	// Incumbent
	bestTour     []int
	bestCost     float64
	hasIncumbent bool
}

func (s *search) at(u, v int) float64 { return s.w[u*s.n+v] }

// newSearch prepares a search over a prefetched matrix with n ≥ 3.
func newSearch(w []float64, n int, opts Options) (*search, error) {
	minOut, minIn, err := precomputeMinima(w, n)
	if err != nil {
		return nil, err
	}
	s := &search{
		n:        n,
		eps:      opts.Eps,
		useBound: opts.BoundAlgo != NoBound,
		w:        w,
		minOut:   minOut,
		minIn:    minIn,
		order:    buildNeighborOrder(w, n),
		visited:  make([]bool, n),
		path:     make([]int, n+1),
		bestTour: make([]int, n+1),
		bestCost: math.Inf(1),
	}
	s.deadline, s.useDeadline = deadlineOf(opts.TimeLimit)
	s.path[0] = 0
	s.visited[0] = true

	return s, nil
}

// expired performs the sparse deadline test and latches timedOut.
func (s *search) expired() bool {
	if s.timedOut {
		return true
	}
	s.steps++
	if !s.useDeadline || s.steps&deadlineMask != 1 {
		return false
	}
	if time.Now().After(s.deadline) {
		s.timedOut = true
	}

	return s.timedOut
}

// offer records tour as the incumbent when it beats the current one.
func (s *search) offer(tour []int, cost float64) {
	if math.IsInf(cost, 0) || math.IsNaN(cost) {
		return
	}
	if s.hasIncumbent && cost >= s.bestCost-s.eps {
		return
	}
	copy(s.bestTour, tour)
	s.bestCost = cost
	s.hasIncumbent = true
}

// seed installs a nearest-insertion tour polished by local search.
func (s *search) seed(maxIters int) {
	t := nearestInsertion(s.w, s.n)
	c := tourCostFlat(s.w, s.n, t)
	if math.IsInf(c, 0) {
		return
	}
	t, c = localSearch(s.w, s.n, t, lsEps(s.eps), maxIters, s.useDeadline, s.deadline)
	s.offer(t, c)
}

// dfs expands the node whose path ends at last after depth vertices.
func (s *search) dfs(last, depth int, costSoFar float64) {
	if s.expired() {
		return
	}
	if s.lowerBound(costSoFar, last) >= s.bestCost-s.eps {
		return
	}

	if depth == s.n {
		c := s.at(last, 0)
		if math.IsInf(c, 0) {
			return
		}
		s.path[s.n] = 0
		s.offer(s.path, costSoFar+c)

		return
	}

	var (
		it = newCandidates(s.order[last], s.visited)
		v  int
		ok bool
		c  float64
	)
	for {
		if v, ok = it.next(); !ok {
			return
		}
		c = s.at(last, v)
		if math.IsInf(c, 0) {
			// Rows are sorted ascending: every remaining arc is missing too.
			return
		}
		if s.filter && s.crosses(last, v, depth) {
			continue
		}
		s.visited[v] = true
		s.path[depth] = v
		s.dfs(v, depth+1, costSoFar+c)
		s.visited[v] = false
		if s.timedOut {
			return
		}
	}
}

// run executes the search and maps its outcome to a Result.
// complete is the status reported when the search finished before the deadline.
func (s *search) run(complete Status) (Result, error) {
	s.dfs(0, 1, 0)
	switch {
	case s.timedOut && !s.hasIncumbent:
		return Result{}, ErrNoFeasibleSolutionWithinBudget
	case !s.hasIncumbent:
		return Result{}, ErrIncompleteGraph
	}
	status := complete
	if s.timedOut && complete == StatusOptimal {
		status = StatusTimeLimited
	}

	return Result{
		Tour:   CopyTour(s.bestTour),
		Cost:   round1e9(s.bestCost),
		Status: status,
		Nodes:  s.steps,
	}, nil
}

// BranchAndBound returns a minimum-cost closed tour from vertex 0 over dist.
//
// When opts.TimeLimit elapses first, the best tour found so far is returned
// with StatusTimeLimited; if none was found, ErrNoFeasibleSolutionWithinBudget.
//
// Errors:
//   - ErrBadOptions, ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch, ErrNegativeWeight.
//   - ErrIncompleteGraph if no Hamiltonian cycle exists over finite arcs.
//   - ErrNoFeasibleSolutionWithinBudget as above.
func BranchAndBound(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	n, w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	if n <= 2 {
		return trivialResult(w, n)
	}

	s, err := newSearch(w, n, opts)
	if err != nil {
		return Result{}, err
	}
	if opts.SeedUpperBound {
		s.seed(opts.LocalSearchMaxIters)
	}

	return s.run(StatusOptimal)
}

func isInf(x float64) bool { return math.IsInf(x, 0) }
