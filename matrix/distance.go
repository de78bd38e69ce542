// SPDX-License-Identifier: MIT

// Package matrix - DistanceMatrix: the road graph reduced to the points to serve.
//
// Build runs one Dijkstra per point (depot first) and keeps each source's
// shortest-path tree, so the round assembler can expand a visiting order back
// into sections without searching again. For the typical n ≤ ~30 points per
// courier, n single-source runs beat an all-pairs pass over the whole map.
//
// Contracts:
//   - Points[0] is the depot; Points[1..n-1] are delivery addresses.
//   - cost[i][i] == 0; asymmetry is preserved (one-way streets).
//   - Every off-diagonal entry is finite on success: a point disconnected from
//     the depot fails the build with *dijkstra.UnreachablePointError naming it.

package matrix

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/dijkstra"
)

// DistanceCache stores shortest distances between intersections of one map.
// namespace is the map fingerprint; values are meters.
type DistanceCache interface {
	GetMany(ctx context.Context, namespace, origin string, destinations []string) (map[string]float64, error)
	PutMany(ctx context.Context, namespace, origin string, distances map[string]float64) error
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	cache DistanceCache
}

// WithCache makes Build read rows from c before running Dijkstra and write
// freshly computed rows back. Cache failures never fail the build; the first
// one is reported in DistanceMatrix.CacheErr.
func WithCache(c DistanceCache) BuildOption {
	return func(cfg *buildConfig) { cfg.cache = c }
}

// DistanceMatrix is a dense n×n cost matrix over a restricted point set plus
// the index mapping back to the road graph.
type DistanceMatrix struct {
	*Dense

	// Points maps matrix index -> intersection ID (Points[0] is the depot).
	Points []string

	// CacheHits counts rows served entirely from the cache.
	CacheHits int
	// CacheErr holds the first cache failure, if any.
	CacheErr error

	g      *core.RoadGraph
	vertex []int            // matrix index -> graph vertex
	trees  []*dijkstra.Tree // matrix index -> shortest-path tree (nil when cached)
}

// Build computes the distance matrix of points over g.
//
// Implementation:
//   - Stage 1: resolve every point to a graph vertex (core.ErrUnknownIntersection).
//   - Stage 2: per source point, try the cache; otherwise run a full Dijkstra
//     tree and keep it for path reconstruction.
//   - Stage 3: reject infinite entries, depot row/column first so the error
//     names the delivery point that is cut off.
//
// ctx is checked between rows.
func Build(ctx context.Context, g *core.RoadGraph, points []string, opts ...BuildOption) (*DistanceMatrix, error) {
	if g == nil {
		return nil, dijkstra.ErrNilGraph
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	var cfg buildConfig
	for _, o := range opts {
		o(&cfg)
	}

	n := len(points)
	dense, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	dm := &DistanceMatrix{
		Dense:  dense,
		Points: append([]string(nil), points...),
		g:      g,
		vertex: make([]int, n),
		trees:  make([]*dijkstra.Tree, n),
	}

	// Stage 1: resolve.
	var i, j int
	for i = range points {
		if dm.vertex[i], err = g.MustIndex(points[i]); err != nil {
			return nil, fmt.Errorf("matrix: build: %w", err)
		}
	}

	// Stage 2: rows.
	for i = 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if dm.fillFromCache(ctx, cfg.cache, i) {
			dm.CacheHits++
			continue
		}
		if err = dm.fillFromDijkstra(ctx, cfg.cache, i); err != nil {
			return nil, err
		}
	}

	// Stage 3: connectivity.
	for j = 1; j < n; j++ {
		if math.IsInf(dm.data[j], 1) {
			return nil, &dijkstra.UnreachablePointError{Point: points[j], From: points[0], To: points[j]}
		}
		if math.IsInf(dm.data[j*n], 1) {
			return nil, &dijkstra.UnreachablePointError{Point: points[j], From: points[j], To: points[0]}
		}
	}
	for i = 1; i < n; i++ {
		for j = 1; j < n; j++ {
			if math.IsInf(dm.data[i*n+j], 1) {
				return nil, &dijkstra.UnreachablePointError{Point: points[j], From: points[i], To: points[j]}
			}
		}
	}

	return dm, nil
}

// fillFromCache fills row i when every destination is cached.
func (dm *DistanceMatrix) fillFromCache(ctx context.Context, c DistanceCache, i int) bool {
	if c == nil {
		return false
	}
	got, err := c.GetMany(ctx, dm.g.Fingerprint(), dm.Points[i], dm.Points)
	if err != nil {
		dm.noteCacheErr(err)
		return false
	}
	n := len(dm.Points)
	row := make([]float64, n)
	var (
		j  int
		d  float64
		ok bool
	)
	for j = 0; j < n; j++ {
		if dm.Points[j] == dm.Points[i] {
			row[j] = 0
			continue
		}
		if d, ok = got[dm.Points[j]]; !ok {
			return false
		}
		row[j] = d
	}
	copy(dm.data[i*n:(i+1)*n], row)

	return true
}

// fillFromDijkstra runs a full tree from point i and writes row i.
func (dm *DistanceMatrix) fillFromDijkstra(ctx context.Context, c DistanceCache, i int) error {
	tree, err := dijkstra.Dijkstra(dm.g, dm.vertex[i])
	if err != nil {
		return fmt.Errorf("matrix: build row %d: %w", i, err)
	}
	dm.trees[i] = tree
	n := len(dm.Points)
	fresh := make(map[string]float64, n)
	var (
		j int
		d float64
	)
	for j = 0; j < n; j++ {
		d = tree.Dist[dm.vertex[j]]
		dm.data[i*n+j] = d
		if j != i && !math.IsInf(d, 1) {
			fresh[dm.Points[j]] = d
		}
	}
	if c != nil && len(fresh) > 0 {
		if err = c.PutMany(ctx, dm.g.Fingerprint(), dm.Points[i], fresh); err != nil {
			dm.noteCacheErr(err)
		}
	}

	return nil
}

func (dm *DistanceMatrix) noteCacheErr(err error) {
	if dm.CacheErr == nil && !errors.Is(err, context.Canceled) {
		dm.CacheErr = err
	}
}

// Size returns n, the number of points.
func (dm *DistanceMatrix) Size() int { return len(dm.Points) }

// Cost returns cost[i][j] without bounds errors (callers index within Size).
func (dm *DistanceMatrix) Cost(i, j int) float64 { return dm.data[i*dm.c+j] }

// Vertex returns the road-graph vertex of matrix index i.
func (dm *DistanceMatrix) Vertex(i int) int { return dm.vertex[i] }

// Path returns the sections of a shortest path Points[i] -> Points[j].
// Rows computed in this build reuse their tree; cached rows search again.
func (dm *DistanceMatrix) Path(i, j int) (float64, []core.Section, error) {
	if i < 0 || i >= len(dm.Points) || j < 0 || j >= len(dm.Points) {
		return math.Inf(1), nil, ErrOutOfRange
	}
	if t := dm.trees[i]; t != nil {
		return t.PathTo(dm.vertex[j])
	}

	return dijkstra.ShortestPath(dm.g, dm.vertex[i], dm.vertex[j])
}
