package tsp

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Solvers return these unwrapped; callers use errors.Is.
var (
	// ErrNilMatrix indicates a nil distance matrix.
	ErrNilMatrix = errors.New("tsp: distance matrix is nil")

	// ErrNonSquare indicates a non-square or empty distance matrix.
	ErrNonSquare = errors.New("tsp: distance matrix must be square and non-empty")

	// ErrDimensionMismatch indicates unreadable entries, NaN weights, or a tour
	// whose length does not match the matrix.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrNegativeWeight indicates a negative distance.
	ErrNegativeWeight = errors.New("tsp: negative weight")

	// ErrIncompleteGraph indicates that no Hamiltonian cycle exists over the
	// finite entries of the matrix.
	ErrIncompleteGraph = errors.New("tsp: no Hamiltonian cycle over finite distances")

	// ErrInvalidTour indicates a tour that is not a closed permutation from 0.
	ErrInvalidTour = errors.New("tsp: invalid tour")

	// ErrBadOptions indicates negative time limits, tolerances or iteration caps.
	ErrBadOptions = errors.New("tsp: invalid options")

	// ErrNoFeasibleSolutionWithinBudget indicates that the time budget ran out
	// before a single complete tour was found. Retry with a larger budget.
	ErrNoFeasibleSolutionWithinBudget = errors.New("tsp: no feasible solution within time budget")

	// ErrUnknownStrategy indicates an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("tsp: unknown strategy")
)

// Status tells how much a Result can be trusted.
type Status int

const (
	// StatusOptimal: the search ran to exhaustion; Cost is the optimum.
	StatusOptimal Status = iota
	// StatusTimeLimited: the budget elapsed; Tour is the best found so far.
	StatusTimeLimited
	// StatusHeuristic: produced by an inexact strategy.
	StatusHeuristic
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusTimeLimited:
		return "time-limited"
	case StatusHeuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a name produced by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{StatusOptimal, StatusTimeLimited, StatusHeuristic} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}

	return fmt.Errorf("tsp: unknown status %q", b)
}

// Result is the outcome of a solve.
type Result struct {
	// Tour is the visiting order, starting and ending at 0 (the depot).
	// For n vertices, len(Tour) == n+1 and Tour[0] == Tour[n] == 0.
	Tour []int

	// Cost is the total distance of the cycle, rounded to 1e-9.
	Cost float64

	// Status distinguishes an exact optimum from best-effort results.
	Status Status

	// Nodes counts search-tree node expansions (0 for trivial instances).
	Nodes int64
}

// Exact reports whether Cost is a proven optimum.
func (r Result) Exact() bool { return r.Status == StatusOptimal }

// BoundAlgo selects the lower bound used for pruning.
type BoundAlgo int

const (
	// SimpleBound is the degree-1 relaxation: max(Σ minOut, Σ minIn) over open vertices.
	SimpleBound BoundAlgo = iota
	// NoBound prunes on partial cost only (testing and benchmarking).
	NoBound
)

// Defaults.
const (
	// DefaultTimeLimit is the wall-clock budget of one solve.
	DefaultTimeLimit = 20 * time.Second
	// DefaultEps is the improvement tolerance for pruning and local search.
	DefaultEps = 1e-12
)

// Options configures solvers. The zero TimeLimit means "no deadline".
type Options struct {
	// TimeLimit is the wall-clock budget; 0 disables the deadline.
	TimeLimit time.Duration

	// Eps: prune when LB ≥ UB − Eps; accept local moves when Δ < −Eps.
	Eps float64

	// BoundAlgo selects the pruning bound.
	BoundAlgo BoundAlgo

	// SeedUpperBound starts the exact search from a nearest-insertion tour
	// polished by local search. Pruning gets stronger, results are unchanged.
	SeedUpperBound bool

	// LocalSearchMaxIters caps accepted local-search moves (0 = until local optimum).
	LocalSearchMaxIters int
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		TimeLimit:      DefaultTimeLimit,
		Eps:            DefaultEps,
		BoundAlgo:      SimpleBound,
		SeedUpperBound: true,
	}
}

func (o Options) validate() error {
	if o.TimeLimit < 0 || o.Eps < 0 || o.LocalSearchMaxIters < 0 {
		return ErrBadOptions
	}
	switch o.BoundAlgo {
	case SimpleBound, NoBound:
		return nil
	default:
		return ErrBadOptions
	}
}
