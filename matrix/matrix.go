// SPDX-License-Identifier: MIT

// Package matrix defines the Matrix interface consumed by the solvers, a dense
// row-major implementation, and the DistanceMatrix builder that reduces a road
// graph to shortest-path costs between the points a courier must serve.
//
// Complexity:
//
//	Rows() and Cols() run in O(1) time.
//	At() and Set() perform bounds checking in O(1) time, returning an error on invalid indices.
//	Clone() performs a deep copy in O(rows*cols) time, allocating new storage.
//	Build() runs one Dijkstra per point: O(n · (V + E) log V).
package matrix

import "errors"

// Sentinel errors. Every message is prefixed with "matrix: ..." for grepping;
// callers match them with errors.Is.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaN signals a NaN value passed to Set.
	ErrNaN = errors.New("matrix: NaN value")

	// ErrRagged indicates rows of different lengths in NewDenseFrom.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrNoPoints indicates an empty point list passed to Build.
	ErrNoPoints = errors.New("matrix: no points to serve")
)

// Matrix represents a two-dimensional mutable array of float64 values.
// Each method enforces bounds checking and returns clear errors on misuse.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}
