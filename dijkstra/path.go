package dijkstra

import (
	"math"

	"github.com/katalvlaran/courierround/core"
)

// Reachable reports whether dst has a finite distance in the tree.
func (t *Tree) Reachable(dst int) bool {
	return dst >= 0 && dst < len(t.Dist) && !math.IsInf(t.Dist[dst], 1)
}

// PathTo rebuilds the section sequence Source -> dst by walking Prev backwards.
//
// Returns (+Inf, nil, *UnreachablePointError) when dst has no path; callers
// must treat +Inf as "no route". A path to the source itself is empty with
// cost 0.
//
// Complexity: O(path length).
func (t *Tree) PathTo(dst int) (float64, []core.Section, error) {
	if dst < 0 || dst >= len(t.Dist) {
		return math.Inf(1), nil, ErrTargetOutOfRange
	}
	if !t.Reachable(dst) {
		return math.Inf(1), nil, t.unreachable(dst)
	}

	// Count hops first so the slice is filled back-to-front without reversing.
	var (
		hops int
		v    = dst
		k    int
	)
	for v != t.Source {
		k = t.Prev[v]
		hops++
		v = t.g.SectionOrigin(k)
	}
	path := make([]core.Section, hops)
	v = dst
	for i := hops - 1; i >= 0; i-- {
		k = t.Prev[v]
		path[i] = t.g.Section(k)
		v = t.g.SectionOrigin(k)
	}

	return t.Dist[dst], path, nil
}

// DistanceTo returns the shortest distance to dst or an *UnreachablePointError.
func (t *Tree) DistanceTo(dst int) (float64, error) {
	if dst < 0 || dst >= len(t.Dist) {
		return math.Inf(1), ErrTargetOutOfRange
	}
	if !t.Reachable(dst) {
		return math.Inf(1), t.unreachable(dst)
	}

	return t.Dist[dst], nil
}

func (t *Tree) unreachable(dst int) error {
	from, _ := t.g.ID(t.Source)
	to, _ := t.g.ID(dst)

	return &UnreachablePointError{Point: to, From: from, To: to}
}

// ShortestPath returns the cost and section sequence of a shortest path
// src -> dst (dense indices). The search stops as soon as dst is settled.
//
// Errors: ErrNilGraph, ErrSourceOutOfRange, ErrTargetOutOfRange, or an
// *UnreachablePointError (cost +Inf, nil path).
func ShortestPath(g *core.RoadGraph, src, dst int) (float64, []core.Section, error) {
	if g != nil && (dst < 0 || dst >= g.NumVertices()) {
		return math.Inf(1), nil, ErrTargetOutOfRange
	}
	t, err := Dijkstra(g, src, WithTarget(dst))
	if err != nil {
		return math.Inf(1), nil, err
	}

	return t.PathTo(dst)
}

// ShortestDistance is ShortestPath without materializing the sections.
func ShortestDistance(g *core.RoadGraph, src, dst int) (float64, error) {
	if g != nil && (dst < 0 || dst >= g.NumVertices()) {
		return math.Inf(1), ErrTargetOutOfRange
	}
	t, err := Dijkstra(g, src, WithTarget(dst))
	if err != nil {
		return math.Inf(1), err
	}

	return t.DistanceTo(dst)
}

// ShortestPathByID resolves intersection IDs and delegates to ShortestPath.
func ShortestPathByID(g *core.RoadGraph, fromID, toID string) (float64, []core.Section, error) {
	if g == nil {
		return math.Inf(1), nil, ErrNilGraph
	}
	src, err := g.MustIndex(fromID)
	if err != nil {
		return math.Inf(1), nil, err
	}
	dst, err := g.MustIndex(toID)
	if err != nil {
		return math.Inf(1), nil, err
	}

	return ShortestPath(g, src, dst)
}
