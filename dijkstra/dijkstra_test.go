// Package dijkstra_test validates shortest distances, early stopping and path
// reconstruction on small road graphs.
package dijkstra_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/dijkstra"
	"github.com/katalvlaran/courierround/internal/testutil"
)

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestDijkstra_NilGraph(t *testing.T) {
	_, err := dijkstra.Dijkstra(nil, 0)
	assert.ErrorIs(t, err, dijkstra.ErrNilGraph)
}

func TestDijkstra_SourceOutOfRange(t *testing.T) {
	g := testutil.Asymmetric(t)
	_, err := dijkstra.Dijkstra(g, 3)
	assert.ErrorIs(t, err, dijkstra.ErrSourceOutOfRange)
	_, err = dijkstra.Dijkstra(g, -1)
	assert.ErrorIs(t, err, dijkstra.ErrSourceOutOfRange)
}

func TestDijkstra_BadOptions(t *testing.T) {
	g := testutil.Asymmetric(t)
	_, err := dijkstra.Dijkstra(g, 0, dijkstra.WithTarget(7))
	assert.ErrorIs(t, err, dijkstra.ErrTargetOutOfRange)
	_, err = dijkstra.Dijkstra(g, 0, dijkstra.WithMaxDistance(-1))
	assert.ErrorIs(t, err, dijkstra.ErrBadMaxDistance)
}

// ------------------------------------------------------------------------
// 2. Distances and paths
// ------------------------------------------------------------------------

func TestDijkstra_AsymmetricDistances(t *testing.T) {
	g := testutil.Asymmetric(t)
	d, _ := g.Index("D")
	a, _ := g.Index("A")
	b, _ := g.Index("B")

	tree, err := dijkstra.Dijkstra(g, d)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tree.Dist[d])
	assert.Equal(t, 2.0, tree.Dist[a])
	// D->A->B (5) beats the direct one-way D->B (6).
	assert.Equal(t, 5.0, tree.Dist[b])

	cost, path, err := tree.PathTo(b)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cost)
	require.Len(t, path, 2)
	assert.Equal(t, "D", path[0].Origin)
	assert.Equal(t, "A", path[0].Destination)
	assert.Equal(t, "B", path[1].Destination)

	// Reverse direction differs: B->D is a direct 2.
	back, err := dijkstra.ShortestDistance(g, b, d)
	require.NoError(t, err)
	assert.Equal(t, 2.0, back)
}

func TestShortestPath_SameVertex(t *testing.T) {
	g := testutil.Asymmetric(t)
	cost, path, err := dijkstra.ShortestPath(g, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost)
	assert.Empty(t, path)
}

func TestShortestPath_GridLengthMatchesSections(t *testing.T) {
	g := testutil.Grid(t, 4, 5, 100)
	src, _ := g.Index(testutil.GridID(0, 0))
	dst, _ := g.Index(testutil.GridID(3, 4))

	cost, path, err := dijkstra.ShortestPath(g, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 700.0, cost) // Manhattan distance: 3+4 blocks

	var sum float64
	prev := testutil.GridID(0, 0)
	for _, s := range path {
		assert.Equal(t, prev, s.Origin, "sections must chain")
		prev = s.Destination
		sum += s.Length
	}
	assert.Equal(t, testutil.GridID(3, 4), prev)
	assert.Equal(t, cost, sum)
}

func TestShortestPath_Deterministic(t *testing.T) {
	g := testutil.Grid(t, 3, 3, 10)
	src, _ := g.Index(testutil.GridID(0, 0))
	dst, _ := g.Index(testutil.GridID(2, 2))

	_, first, err := dijkstra.ShortestPath(g, src, dst)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, again, err := dijkstra.ShortestPath(g, src, dst)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// ------------------------------------------------------------------------
// 3. Unreachable points
// ------------------------------------------------------------------------

func TestShortestPath_Unreachable(t *testing.T) {
	g := testutil.GridWithIsland(t, 2, 2, 10)
	src, _ := g.Index(testutil.GridID(0, 0))
	dst, _ := g.Index(testutil.IslandID)

	cost, path, err := dijkstra.ShortestPath(g, src, dst)
	assert.True(t, math.IsInf(cost, 1))
	assert.Nil(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, dijkstra.ErrUnreachable)

	var upe *dijkstra.UnreachablePointError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, testutil.IslandID, upe.Point)
	assert.Equal(t, testutil.GridID(0, 0), upe.From)
}

func TestShortestPath_OneWayTrap(t *testing.T) {
	// X can be entered but never left.
	g, err := core.NewRoadGraph(
		[]core.Intersection{{ID: "D"}, {ID: "X"}},
		[]core.Section{{Origin: "D", Destination: "X", Length: 4}},
	)
	require.NoError(t, err)

	c, err := dijkstra.ShortestDistance(g, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c)

	_, err = dijkstra.ShortestDistance(g, 1, 0)
	assert.ErrorIs(t, err, dijkstra.ErrUnreachable)
}

// ------------------------------------------------------------------------
// 4. Options
// ------------------------------------------------------------------------

func TestDijkstra_MaxDistance(t *testing.T) {
	g := testutil.Grid(t, 1, 6, 10)
	src, _ := g.Index(testutil.GridID(0, 0))
	tree, err := dijkstra.Dijkstra(g, src, dijkstra.WithMaxDistance(25))
	require.NoError(t, err)

	near, _ := g.Index(testutil.GridID(0, 2))
	far, _ := g.Index(testutil.GridID(0, 5))
	assert.Equal(t, 20.0, tree.Dist[near])
	assert.False(t, tree.Reachable(far))
}

func TestShortestPathByID(t *testing.T) {
	g := testutil.Asymmetric(t)
	cost, path, err := dijkstra.ShortestPathByID(g, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, 3.0, cost)
	require.Len(t, path, 1)
	assert.Equal(t, "Alpha Ave", path[0].Name)

	_, _, err = dijkstra.ShortestPathByID(g, "B", "nowhere")
	assert.ErrorIs(t, err, core.ErrUnknownIntersection)
}
