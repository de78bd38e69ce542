package tsp

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/courierround/matrix"
)

// Strategy solves one closed tour from vertex 0 over a distance matrix.
// Implementations are interchangeable at every call site; the choice is
// made up front by configuration.
type Strategy interface {
	Name() string
	Solve(dist matrix.Matrix) (Result, error)
}

// Kind names a Strategy in configuration and requests.
type Kind string

const (
	KindExact     Kind = "exact"
	KindHeuristic Kind = "heuristic"
)

// ParseKind accepts "exact" or "heuristic" (case-insensitive). Empty means exact.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindExact:
		return KindExact, nil
	case KindHeuristic:
		return KindHeuristic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Exact is the Branch-and-Bound strategy.
type Exact struct {
	Options Options
}

func (Exact) Name() string { return string(KindExact) }

// Solve implements Strategy.
func (e Exact) Solve(dist matrix.Matrix) (Result, error) {
	return BranchAndBound(dist, e.Options)
}

// Heuristic is the crossing-filtered search seeded by nearest insertion.
type Heuristic struct {
	Options Options
}

func (Heuristic) Name() string { return string(KindHeuristic) }

// Solve implements Strategy.
func (h Heuristic) Solve(dist matrix.Matrix) (Result, error) {
	return HeuristicSolve(dist, h.Options)
}

// NewStrategy returns the strategy registered under kind.
func NewStrategy(kind Kind, opts Options) (Strategy, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	switch kind {
	case KindExact, "":
		return Exact{Options: opts}, nil
	case KindHeuristic:
		return Heuristic{Options: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}
