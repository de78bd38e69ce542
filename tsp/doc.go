// Package tsp finds closed delivery tours over a dense distance matrix.
//
// Vertex 0 is the depot: every tour starts and ends there and visits each
// other vertex exactly once. Costs may be asymmetric (one-way streets) and
// +Inf marks a missing arc.
//
// Solvers:
//
//   - BranchAndBound: exact depth-first Branch-and-Bound with a degree-1
//     lower bound, cheapest-first candidate ordering and an anytime time
//     budget. Result.Status tells an optimum from a time-limited best effort.
//
//   - HeuristicSolve: the same engine seeded by nearest insertion plus local
//     search, with an edge-crossing filter that trades optimality for speed.
//
// Both are available behind the Strategy interface (Exact, Heuristic,
// NewStrategy) so callers pick one from configuration.
//
// Helpers:
//
//   - TourCost, ValidateTour: check and price a tour.
//   - LocalSearch: 2-opt (with exact asymmetric deltas) and Or-opt.
//   - CheapestInsertion: where a new vertex fits best into an existing tour.
//
// Every solve owns its search state; concurrent solves on different (or the
// same, read-only) matrices are safe.
package tsp
