// Package tsp - validation and prefetch shared by exact/heuristic solvers.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only sentinel errors from types.go.
//   - O(n²) worst-case where n is the matrix size.
package tsp

import (
	"math"
	"time"

	"github.com/katalvlaran/courierround/matrix"
)

// flatMatrix is implemented by matrices that copy out their row-major
// buffer in one call (matrix.Dense, matrix.DistanceMatrix).
type flatMatrix interface {
	Flat() []float64
}

// prefetch validates dist and loads it into a dense row-major buffer w[u*n+v].
//
// Contract:
//   - dist non-nil (ErrNilMatrix), square with n ≥ 1 (ErrNonSquare).
//   - Off-diagonal entries: NaN → ErrDimensionMismatch, negative → ErrNegativeWeight,
//     +Inf allowed (a missing arc). The diagonal is ignored.
//
// Complexity: O(n²) time and space.
func prefetch(dist matrix.Matrix) (int, []float64, error) {
	if dist == nil {
		return 0, nil, ErrNilMatrix
	}
	n := dist.Rows()
	if n <= 0 || n != dist.Cols() {
		return 0, nil, ErrNonSquare
	}

	var w []float64
	if fm, ok := dist.(flatMatrix); ok {
		w = fm.Flat()
	} else {
		w = make([]float64, n*n)
		var (
			i, j int
			x    float64
			err  error
		)
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				if x, err = dist.At(i, j); err != nil {
					return 0, nil, ErrDimensionMismatch
				}
				w[i*n+j] = x
			}
		}
	}

	var i, j int
	for i = 0; i < n; i++ {
		w[i*n+i] = 0
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if math.IsNaN(w[i*n+j]) {
				return 0, nil, ErrDimensionMismatch
			}
			if w[i*n+j] < 0 {
				return 0, nil, ErrNegativeWeight
			}
		}
	}

	return n, w, nil
}

// deadlineOf converts a time budget into an absolute deadline.
// A zero budget means "no deadline" (ok == false).
func deadlineOf(limit time.Duration) (time.Time, bool) {
	if limit <= 0 {
		return time.Time{}, false
	}

	return time.Now().Add(limit), true
}
