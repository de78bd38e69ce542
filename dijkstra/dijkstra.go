// Package dijkstra implements Dijkstra's shortest-path algorithm on road graphs.
//
// Dijkstra computes the minimum-length path from a single source intersection to
// all other reachable intersections of a core.RoadGraph (non-negative lengths
// are guaranteed by core.NewRoadGraph). It processes vertices in order of
// increasing distance using a min-heap priority queue, relaxing sections and
// recording, for every vertex, the section it was reached through.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each vertex is settled at most once: V extractions from the heap.
//   - Each relaxation may push a new entry into the heap: up to E pushes.
//   - Space: O(V + E)
//   - O(V) for the distance and predecessor slices.
//   - O(E) worst-case for entries in the heap under “lazy-decrease-key”.
//
// Notes on implementation choices:
//
//   - Index space only: distances and predecessors are dense slices, not maps.
//   - Predecessors are section indices, so a path expands to real road
//     segments (names, lengths) without a second lookup.
//   - We use a “lazy” decrease-key strategy: pushing duplicates into the heap and ignoring stale entries.
package dijkstra

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/courierround/core"
)

// Tree is the shortest-path tree of one source.
//
// Dist[v] is +Inf when v is unreachable (or was not settled under WithTarget /
// WithMaxDistance). Prev[v] is the index of the section entering v on a
// shortest path, or -1 for the source and for unreached vertices.
type Tree struct {
	Source int
	Dist   []float64
	Prev   []int

	g *core.RoadGraph
}

// Dijkstra computes shortest distances from src to every vertex of g.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. src must be a vertex index of g (ErrSourceOutOfRange).
//  3. Options.Target, if set, must be a vertex index (ErrTargetOutOfRange).
//  4. Options.MaxDistance must be ≥ 0 (ErrBadMaxDistance).
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func Dijkstra(g *core.RoadGraph, src int, opts ...Option) (*Tree, error) {
	// 1) Build and validate Options
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	n := g.NumVertices()
	if src < 0 || src >= n {
		return nil, ErrSourceOutOfRange
	}
	if cfg.Target >= n || cfg.Target < -1 {
		return nil, ErrTargetOutOfRange
	}
	if cfg.MaxDistance < 0 || math.IsNaN(cfg.MaxDistance) {
		return nil, ErrBadMaxDistance
	}

	// 2) Prepare data structures and run.
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, n),
		prev:    make([]int, n),
		settled: make([]bool, n),
		pq:      make(nodePQ, 0, n),
	}
	r.init(src)
	r.process()

	return &Tree{Source: src, Dist: r.dist, Prev: r.prev, g: g}, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *core.RoadGraph // read-only within Dijkstra
	options Options
	dist    []float64 // vertex -> current best distance from source
	prev    []int     // vertex -> entering section index, -1 if none
	settled []bool    // vertex distance is final
	pq      nodePQ    // lazy min-heap
}

// init sets dist[v]=+Inf, prev[v]=-1 for every v and pushes the source.
func (r *runner) init(src int) {
	inf := math.Inf(1)
	var v int
	for v = range r.dist {
		r.dist[v] = inf
		r.prev[v] = -1
	}
	r.dist[src] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, nodeItem{v: src, dist: 0})
}

// process is the core loop: extract the closest unsettled vertex and relax
// its outgoing sections.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable vertices processed).
//   - The minimum distance in the heap exceeds MaxDistance.
//   - The target vertex has been settled.
func (r *runner) process() {
	var item nodeItem
	for r.pq.Len() > 0 {
		item = heap.Pop(&r.pq).(nodeItem)
		if r.settled[item.v] {
			continue // stale heap entry
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.settled[item.v] = true
		if item.v == r.options.Target {
			return
		}
		r.relax(item.v)
	}
}

// relax tries to improve the distance of every head of a section leaving u.
// Uses strict "<" so equal-length alternatives keep the first predecessor
// found (input order of sections).
func (r *runner) relax(u int) {
	du := r.dist[u]
	r.g.ForEachOut(u, func(a core.Arc) bool {
		if r.settled[a.To] {
			return true
		}
		nd := du + a.Length
		if nd > r.options.MaxDistance || nd >= r.dist[a.To] {
			return true
		}
		r.dist[a.To] = nd
		r.prev[a.To] = a.Section
		heap.Push(&r.pq, nodeItem{v: a.To, dist: nd})

		return true
	})
}

// nodeItem represents a vertex and its tentative distance in the heap.
type nodeItem struct {
	v    int
	dist float64
}

// nodePQ is a min-heap of nodeItem ordered by dist, then vertex index for
// deterministic pops among equal distances.
type nodePQ []nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less defines the comparison: smaller dist → higher priority.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].v < pq[j].v
	}

	return pq[i].dist < pq[j].dist
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

// Pop removes and returns the smallest element from the heap.
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
