// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm on a core.RoadGraph.
//
// Options:
//
//	– WithTarget:      stop as soon as the target vertex is settled.
//	– WithMaxDistance: vertices farther than the cap are not explored.
//
// Errors (sentinel):
//
//	– ErrNilGraph         if the provided graph pointer is nil.
//	– ErrSourceOutOfRange if the source index is not a vertex of the graph.
//	– ErrTargetOutOfRange if a target index is not a vertex of the graph.
//	– ErrBadMaxDistance   if MaxDistance is negative or NaN.
//	– ErrUnreachable      matched by every *UnreachablePointError.
package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil *core.RoadGraph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrSourceOutOfRange indicates a source index outside [0, NumVertices).
	ErrSourceOutOfRange = errors.New("dijkstra: source vertex out of range")

	// ErrTargetOutOfRange indicates a target index outside [0, NumVertices).
	ErrTargetOutOfRange = errors.New("dijkstra: target vertex out of range")

	// ErrBadMaxDistance indicates a negative or NaN distance cap.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrUnreachable is the class of all "no path exists" failures.
	ErrUnreachable = errors.New("dijkstra: point unreachable")
)

// UnreachablePointError reports that no path leads from From to To.
// Point names the required point that is disconnected; it equals To unless
// the caller knows better (e.g. the depot row of a distance matrix).
type UnreachablePointError struct {
	Point string
	From  string
	To    string
}

func (e *UnreachablePointError) Error() string {
	return fmt.Sprintf("dijkstra: point %s unreachable (no path %s -> %s)", e.Point, e.From, e.To)
}

// Is makes errors.Is(err, ErrUnreachable) true for every UnreachablePointError.
func (e *UnreachablePointError) Is(target error) bool { return target == ErrUnreachable }

// Options configures a single Dijkstra run.
//
// Target      – settle only until this vertex is final (-1 = full tree).
// MaxDistance – optional cap on distances to explore (+Inf = no cap).
type Options struct {
	Target      int
	MaxDistance float64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithTarget stops the search once vertex t has its final distance.
// Distances of vertices settled before t are exact; the rest stay +Inf or
// hold tentative values and must not be trusted.
func WithTarget(t int) Option {
	return func(o *Options) {
		o.Target = t
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Vertices whose shortest distance would exceed this value are not explored.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		o.MaxDistance = max
	}
}

// DefaultOptions returns a full-tree configuration without distance cap.
func DefaultOptions() Options {
	return Options{
		Target:      -1,
		MaxDistance: math.Inf(1),
	}
}
