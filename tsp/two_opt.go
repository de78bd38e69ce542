// Package tsp - local search (asymmetric 2-opt and Or-opt).
//
// localSearch performs deterministic first-improvement moves on a closed tour:
//   - 2-opt reverses the segment T[i..k]. With asymmetric costs the reversed
//     interior changes cost too, so Δ uses prefix sums along the tour:
//     fwd[j] = Σ_{m<j} w(T[m],T[m+1]) and bwd[j] = Σ_{m<j} w(T[m+1],T[m]).
//     Δ = w(a,c) + w(b,d) + (bwd[k]−bwd[i]) − w(a,b) − w(c,d) − (fwd[k]−fwd[i]),
//     with a=T[i−1], b=T[i], c=T[k], d=T[k+1].
//   - Or-opt relocates a segment of 1..3 vertices elsewhere, keeping its
//     orientation. Δ only touches the three arcs around the cut points.
//
// Contracts:
//   - tour is closed from 0 and every arc on it is finite.
//   - A move is accepted when Δ < −eps; eps is at least 1e−9 so that prefix-sum
//     rounding cannot cycle.
//
// Complexity:
//   - One 2-opt pass: O(n²) O(1) checks; Or-opt pass: O(n²) checks.
//   - Each accepted move costs O(n) (rebuild the tour and the prefix sums).
package tsp

import (
	"math"
	"time"

	"github.com/katalvlaran/courierround/matrix"
)

const (
	minLocalEps    = 1e-9
	maxOrOptLen    = 3
	lsDeadlineMask = 2047
)

func lsEps(eps float64) float64 { return math.Max(eps, minLocalEps) }

// localSearch improves tour in place until no move applies, maxIters moves
// were accepted (0 = unlimited), or the deadline passes.
func localSearch(w []float64, n int, tour []int, eps float64, maxIters int, useDeadline bool, deadline time.Time) ([]int, float64) {
	if n < 3 {
		return tour, tourCostFlat(w, n, tour)
	}
	var (
		fwd   = make([]float64, n+1)
		bwd   = make([]float64, n+1)
		moves int
		ticks int
		out   bool
	)
	prefix := func() {
		var j int
		for j = 0; j < n; j++ {
			fwd[j+1] = fwd[j] + w[tour[j]*n+tour[j+1]]
			bwd[j+1] = bwd[j] + w[tour[j+1]*n+tour[j]]
		}
	}
	expired := func() bool {
		ticks++
		if !useDeadline || ticks&lsDeadlineMask != 0 {
			return false
		}
		if time.Now().After(deadline) {
			out = true
		}

		return out
	}
	at := func(u, v int) float64 { return w[u*n+v] }

	prefix()
	for !out && (maxIters == 0 || moves < maxIters) {
		improved := false

		// 2-opt: reverse T[i..k], 1 ≤ i < k ≤ n−1.
		var i, k int
	twoOpt:
		for i = 1; i < n-1; i++ {
			for k = i + 1; k < n; k++ {
				if expired() {
					break twoOpt
				}
				a, b, c, d := tour[i-1], tour[i], tour[k], tour[k+1]
				delta := at(a, c) + at(b, d) + (bwd[k] - bwd[i]) -
					at(a, b) - at(c, d) - (fwd[k] - fwd[i])
				if delta < -eps {
					reverseArcInPlace(tour, i, k)
					prefix()
					improved = true

					break twoOpt
				}
			}
		}
		if out {
			break
		}

		// Or-opt: move T[i..i+L−1] between T[j] and T[j+1].
		if !improved {
			var L, j int
		orOpt:
			for L = 1; L <= maxOrOptLen && L < n-1; L++ {
				for i = 1; i+L-1 <= n-1; i++ {
					p, s0, sE, nx := tour[i-1], tour[i], tour[i+L-1], tour[i+L]
					removeGain := at(p, s0) + at(sE, nx) - at(p, nx)
					for j = 0; j < n; j++ {
						if j >= i-1 && j <= i+L-1 {
							continue
						}
						if expired() {
							break orOpt
						}
						x, y := tour[j], tour[j+1]
						delta := at(x, s0) + at(sE, y) - at(x, y) - removeGain
						if delta < -eps {
							copy(tour, moveSegment(tour, i, L, j))
							prefix()
							improved = true

							break orOpt
						}
					}
				}
			}
		}

		if !improved {
			break
		}
		moves++
	}

	return tour, tourCostFlat(w, n, tour)
}

// moveSegment returns a new tour with T[i..i+L−1] placed after T[j].
func moveSegment(tour []int, i, L, j int) []int {
	seg := append([]int(nil), tour[i:i+L]...)
	rest := make([]int, 0, len(tour))
	rest = append(rest, tour[:i]...)
	rest = append(rest, tour[i+L:]...)
	if j > i+L-1 {
		j -= L
	}

	return insertSegment(rest, j+1, seg)
}

func insertSegment(tour []int, p int, seg []int) []int {
	out := make([]int, 0, len(tour)+len(seg))
	out = append(out, tour[:p]...)
	out = append(out, seg...)

	return append(out, tour[p:]...)
}

// LocalSearch polishes a closed tour from 0 with 2-opt and Or-opt moves
// and returns the improved tour with its cost. The input slice is not modified.
//
// Errors: matrix sentinels, ErrBadOptions, ErrInvalidTour, ErrIncompleteGraph
// when the input tour uses a missing arc.
func LocalSearch(dist matrix.Matrix, tour []int, opts Options) ([]int, float64, error) {
	if err := opts.validate(); err != nil {
		return nil, 0, err
	}
	n, w, err := prefetch(dist)
	if err != nil {
		return nil, 0, err
	}
	if err = ValidateTour(tour, n); err != nil {
		return nil, 0, err
	}
	t := CopyTour(tour)
	if isInf(tourCostFlat(w, n, t)) {
		return nil, 0, ErrIncompleteGraph
	}
	deadline, useDeadline := deadlineOf(opts.TimeLimit)
	t, c := localSearch(w, n, t, lsEps(opts.Eps), opts.LocalSearchMaxIters, useDeadline, deadline)

	return t, round1e9(c), nil
}
