package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// NewRoadGraph validates intersections and sections and builds the immutable
// adjacency structure plus the ID<->index bijection.
//
// Implementation:
//   - Stage 1: index intersections in input order (index i == intersections[i]).
//   - Stage 2: resolve each section's endpoints and append it to its origin's
//     outgoing list; input order is preserved so shortest-path tie-breaks are stable.
//   - Stage 3: compute a content fingerprint used as a cache namespace.
//
// Errors:
//   - ErrEmptyGraph, ErrEmptyIntersectionID, ErrDuplicateIntersection.
//   - ErrUnknownIntersection (wrapped with the section endpoints) for dangling sections.
//   - ErrBadLength for negative, NaN or infinite lengths.
//
// Complexity: O(V + E) time and space.
func NewRoadGraph(intersections []Intersection, sections []Section) (*RoadGraph, error) {
	if len(intersections) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &RoadGraph{
		intersections: make([]Intersection, len(intersections)),
		ids:           make([]string, len(intersections)),
		indexes:       make(map[string]int, len(intersections)),
		sections:      make([]Section, 0, len(sections)),
		from:          make([]int, 0, len(sections)),
		to:            make([]int, 0, len(sections)),
		out:           make([][]int, len(intersections)),
	}

	// Stage 1: intersections.
	var (
		i  int
		it Intersection
	)
	for i, it = range intersections {
		if it.ID == "" {
			return nil, ErrEmptyIntersectionID
		}
		if _, dup := g.indexes[it.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIntersection, it.ID)
		}
		g.intersections[i] = it
		g.ids[i] = it.ID
		g.indexes[it.ID] = i
	}

	// Stage 2: sections.
	var (
		s        Section
		u, v     int
		okU, okV bool
	)
	for _, s = range sections {
		u, okU = g.indexes[s.Origin]
		v, okV = g.indexes[s.Destination]
		if !okU || !okV {
			return nil, fmt.Errorf("%w: section %s->%s", ErrUnknownIntersection, s.Origin, s.Destination)
		}
		if s.Length < 0 || math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
			return nil, fmt.Errorf("%w: section %s->%s length=%v", ErrBadLength, s.Origin, s.Destination, s.Length)
		}
		g.out[u] = append(g.out[u], len(g.sections))
		g.sections = append(g.sections, s)
		g.from = append(g.from, u)
		g.to = append(g.to, v)
	}

	// Stage 3: fingerprint.
	g.fingerprint = fingerprintOf(g.intersections, g.sections)

	return g, nil
}

// fingerprintOf hashes the map content in input order.
func fingerprintOf(intersections []Intersection, sections []Section) string {
	h := sha256.New()
	var it Intersection
	for _, it = range intersections {
		h.Write([]byte(it.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(it.Latitude, 'g', -1, 64)))
		h.Write([]byte(strconv.FormatFloat(it.Longitude, 'g', -1, 64)))
		h.Write([]byte{1})
	}
	var s Section
	for _, s = range sections {
		h.Write([]byte(s.Origin))
		h.Write([]byte{0})
		h.Write([]byte(s.Destination))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(s.Length, 'g', -1, 64)))
		h.Write([]byte{1})
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}

// NumVertices returns the number of intersections.
func (g *RoadGraph) NumVertices() int { return len(g.ids) }

// NumSections returns the number of directed sections.
func (g *RoadGraph) NumSections() int { return len(g.sections) }

// Fingerprint identifies the map content; equal maps give equal fingerprints.
func (g *RoadGraph) Fingerprint() string { return g.fingerprint }

// Index returns the dense index of intersection id.
func (g *RoadGraph) Index(id string) (int, bool) {
	i, ok := g.indexes[id]
	return i, ok
}

// MustIndex is Index returning ErrUnknownIntersection for a missing id.
func (g *RoadGraph) MustIndex(id string) (int, error) {
	i, ok := g.indexes[id]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrUnknownIntersection, id)
	}

	return i, nil
}

// ID returns the intersection ID at dense index i.
func (g *RoadGraph) ID(i int) (string, error) {
	if i < 0 || i >= len(g.ids) {
		return "", ErrIndexOutOfRange
	}

	return g.ids[i], nil
}

// Has reports whether id is an intersection of the map.
func (g *RoadGraph) Has(id string) bool {
	_, ok := g.indexes[id]
	return ok
}

// Intersection returns the intersection with the given id.
func (g *RoadGraph) Intersection(id string) (Intersection, error) {
	i, ok := g.indexes[id]
	if !ok {
		return Intersection{}, fmt.Errorf("%w: %s", ErrUnknownIntersection, id)
	}

	return g.intersections[i], nil
}

// Intersections returns a copy of all intersections in index order.
func (g *RoadGraph) Intersections() []Intersection {
	out := make([]Intersection, len(g.intersections))
	copy(out, g.intersections)

	return out
}

// Sections returns a copy of all sections in input order.
func (g *RoadGraph) Sections() []Section {
	out := make([]Section, len(g.sections))
	copy(out, g.sections)

	return out
}

// Section returns the section with section index k.
// Section indices are stable for the lifetime of the graph.
func (g *RoadGraph) Section(k int) Section { return g.sections[k] }

// SectionOrigin returns the dense index of section k's origin.
func (g *RoadGraph) SectionOrigin(k int) int { return g.from[k] }

// Arc describes an outgoing section in index space.
type Arc struct {
	Section int     // section index, see Section(k)
	To      int     // destination vertex index
	Length  float64 // section length
}

// ForEachOut calls fn for every section leaving vertex u, in input order.
// Iteration stops early if fn returns false.
//
// Complexity: O(outdeg(u)), no allocations.
func (g *RoadGraph) ForEachOut(u int, fn func(a Arc) bool) {
	var k int
	for _, k = range g.out[u] {
		if !fn(Arc{Section: k, To: g.to[k], Length: g.sections[k].Length}) {
			return
		}
	}
}

// OutDegree returns the number of sections leaving u.
func (g *RoadGraph) OutDegree(u int) int { return len(g.out[u]) }

// Stats is a snapshot of graph size used in logs and diagnostics.
type Stats struct {
	Intersections int    `json:"intersections"`
	Sections      int    `json:"sections"`
	Fingerprint   string `json:"fingerprint"`
}

// Stats returns graph size counters.
func (g *RoadGraph) Stats() Stats {
	return Stats{
		Intersections: len(g.ids),
		Sections:      len(g.sections),
		Fingerprint:   g.fingerprint,
	}
}
