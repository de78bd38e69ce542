// SPDX-License-Identifier: MIT

package matrix_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/dijkstra"
	"github.com/katalvlaran/courierround/internal/testutil"
	"github.com/katalvlaran/courierround/matrix"
)

// memCache is an in-memory matrix.DistanceCache.
type memCache struct {
	mu      sync.Mutex
	data    map[string]map[string]float64 // ns|origin -> dest -> d
	puts    int
	failGet bool
}

func newMemCache() *memCache { return &memCache{data: map[string]map[string]float64{}} }

func (c *memCache) GetMany(_ context.Context, ns, origin string, dests []string) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("cache down")
	}
	out := map[string]float64{}
	for _, d := range dests {
		if v, ok := c.data[ns+"|"+origin][d]; ok {
			out[d] = v
		}
	}

	return out, nil
}

func (c *memCache) PutMany(_ context.Context, ns, origin string, m map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	row := c.data[ns+"|"+origin]
	if row == nil {
		row = map[string]float64{}
		c.data[ns+"|"+origin] = row
	}
	for k, v := range m {
		row[k] = v
	}

	return nil
}

func TestBuild_AsymmetricMatrix(t *testing.T) {
	g := testutil.Asymmetric(t)
	dm, err := matrix.Build(context.Background(), g, []string{"D", "A", "B"})
	require.NoError(t, err)
	require.Equal(t, 3, dm.Size())

	want := [][]float64{
		{0, 2, 5},
		{2, 0, 3},
		{2, 3, 0},
	}
	assert.Equal(t, want, dm.Rows2D())
	assert.Equal(t, 5.0, dm.Cost(0, 2))

	cost, path, err := dm.Path(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cost)
	require.Len(t, path, 2)
	assert.Equal(t, "A", path[0].Destination)
}

func TestBuild_UnknownPoint(t *testing.T) {
	g := testutil.Asymmetric(t)
	_, err := matrix.Build(context.Background(), g, []string{"D", "Z"})
	assert.ErrorIs(t, err, core.ErrUnknownIntersection)

	_, err = matrix.Build(context.Background(), g, nil)
	assert.ErrorIs(t, err, matrix.ErrNoPoints)
}

func TestBuild_UnreachableNamesDeliveryPoint(t *testing.T) {
	g := testutil.GridWithIsland(t, 2, 2, 10)
	points := []string{testutil.GridID(0, 0), testutil.GridID(1, 1), testutil.IslandID}

	_, err := matrix.Build(context.Background(), g, points)
	require.Error(t, err)
	var upe *dijkstra.UnreachablePointError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, testutil.IslandID, upe.Point)
	assert.ErrorIs(t, err, dijkstra.ErrUnreachable)
}

func TestBuild_CancelledContext(t *testing.T) {
	g := testutil.Grid(t, 2, 2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := matrix.Build(ctx, g, []string{testutil.GridID(0, 0), testutil.GridID(1, 1)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_CacheRoundTrip(t *testing.T) {
	g := testutil.Grid(t, 3, 3, 50)
	points := []string{testutil.GridID(0, 0), testutil.GridID(2, 2), testutil.GridID(0, 2)}
	cache := newMemCache()

	first, err := matrix.Build(context.Background(), g, points, matrix.WithCache(cache))
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 3, cache.puts)

	second, err := matrix.Build(context.Background(), g, points, matrix.WithCache(cache))
	require.NoError(t, err)
	assert.Equal(t, 3, second.CacheHits)
	assert.Equal(t, first.Rows2D(), second.Rows2D())

	// Cached rows still expand into sections.
	cost, path, err := second.Path(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 200.0, cost)
	assert.Len(t, path, 4)
}

func TestBuild_CacheFailureIsNotFatal(t *testing.T) {
	g := testutil.Grid(t, 2, 2, 10)
	cache := newMemCache()
	cache.failGet = true

	dm, err := matrix.Build(context.Background(), g, []string{testutil.GridID(0, 0), testutil.GridID(1, 1)}, matrix.WithCache(cache))
	require.NoError(t, err)
	assert.Error(t, dm.CacheErr)
	assert.Equal(t, 20.0, dm.Cost(0, 1))
}
