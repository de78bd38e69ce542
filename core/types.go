// Package core defines the road network the rest of the module works on:
// Intersection, Section and the immutable RoadGraph built from them.
//
// A RoadGraph is built once per map load and never mutated afterwards, so it
// carries no locks and may be shared read-only across goroutines (one per
// courier solve).
//
// Errors:
//
//	ErrEmptyIntersectionID  - intersection ID is the empty string.
//	ErrDuplicateIntersection - two intersections share an ID.
//	ErrUnknownIntersection  - a section or lookup references a missing ID.
//	ErrBadLength            - section length is negative, NaN or infinite.
//	ErrEmptyGraph           - no intersections were supplied.
package core

import "errors"

// Sentinel errors for road graph construction and lookups.
var (
	// ErrEmptyIntersectionID indicates an Intersection with an empty ID.
	ErrEmptyIntersectionID = errors.New("core: intersection ID is empty")

	// ErrDuplicateIntersection indicates two intersections with the same ID.
	ErrDuplicateIntersection = errors.New("core: duplicate intersection ID")

	// ErrUnknownIntersection indicates a reference to an ID that is not on the map.
	ErrUnknownIntersection = errors.New("core: intersection not found")

	// ErrBadLength indicates a section length that is negative, NaN or ±Inf.
	ErrBadLength = errors.New("core: section length must be finite and non-negative")

	// ErrEmptyGraph indicates a map without intersections.
	ErrEmptyGraph = errors.New("core: road graph has no intersections")

	// ErrIndexOutOfRange indicates a dense index outside [0, NumVertices).
	ErrIndexOutOfRange = errors.New("core: vertex index out of range")
)

// Intersection is a point of the road network.
//
// ID is opaque and stable; Latitude/Longitude are used only by geographic
// partitioning and by clients drawing the map.
type Intersection struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Section is a directed road segment from Origin to Destination.
//
// Length is in meters and is the edge weight used by shortest paths.
// Two-way streets are modeled as two sections.
type Section struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Name        string  `json:"name"`
	Length      float64 `json:"length"`
}

// RoadGraph is an immutable weighted directed graph over intersections.
//
// Algorithmic code works on dense indices in [0, NumVertices); the
// indexes/ids pair is the bijection between those indices and intersection IDs.
type RoadGraph struct {
	intersections []Intersection // by dense index
	ids           []string       // index -> ID
	indexes       map[string]int // ID -> index

	sections []Section // all sections in input order
	from     []int     // per section: origin index
	to       []int     // per section: destination index
	out      [][]int   // per vertex: indices into sections (outgoing), input order

	fingerprint string
}
