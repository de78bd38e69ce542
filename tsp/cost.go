// Package tsp - cost utilities shared by exact/heuristic solvers.
//
// Design:
//   - Strict sentinels from types.go on any invalid input.
//   - Stable summation: rounded to 1e-9 to avoid cross-platform FP noise.
//
// Complexity:
//   - O(n) time for a tour of length n+1, O(1) extra space.
package tsp

import (
	"math"

	"github.com/katalvlaran/courierround/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// TourCost sums dist[tour[i]][tour[i+1]] along a closed tour.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch (index or NaN),
// ErrIncompleteGraph (+Inf arc), ErrNegativeWeight.
func TourCost(dist matrix.Matrix, tour []int) (float64, error) {
	if dist == nil {
		return 0, ErrNilMatrix
	}
	if len(tour) < 2 {
		return 0, ErrDimensionMismatch
	}
	n := dist.Rows()
	if n != dist.Cols() || n <= 0 {
		return 0, ErrNonSquare
	}

	var (
		sum  float64
		i    int
		u, v int
		w    float64
		err  error
	)
	for i = 0; i+1 < len(tour); i++ {
		u, v = tour[i], tour[i+1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, ErrDimensionMismatch
		}
		if u == v {
			continue
		}
		if w, err = dist.At(u, v); err != nil || math.IsNaN(w) {
			return 0, ErrDimensionMismatch
		}
		if math.IsInf(w, 0) {
			return 0, ErrIncompleteGraph
		}
		if w < 0 {
			return 0, ErrNegativeWeight
		}
		sum += w
	}

	return round1e9(sum), nil
}

// tourCostFlat is TourCost on a prefetched buffer (no validation).
func tourCostFlat(w []float64, n int, tour []int) float64 {
	var (
		sum float64
		i   int
	)
	for i = 0; i+1 < len(tour); i++ {
		sum += w[tour[i]*n+tour[i+1]]
	}

	return sum
}

// round1e9 returns x rounded to 1e-9 absolute precision.
func round1e9(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}

	return math.Round(x*roundScale) / roundScale
}
