// Package tsp_test checks exactness, tour invariants, budgets and sentinel
// errors of the Branch-and-Bound solver.
package tsp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/matrix"
	"github.com/katalvlaran/courierround/tsp"
)

// ------------------------------------------------------------------------
// 1. Concrete instances
// ------------------------------------------------------------------------

func TestBranchAndBound_AsymmetricDepotAB(t *testing.T) {
	res, err := tsp.BranchAndBound(depotAB(t), tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, res.Tour)
	assert.Equal(t, 7.0, res.Cost)
	assert.Equal(t, tsp.StatusOptimal, res.Status)
	assert.True(t, res.Exact())
}

func TestBranchAndBound_SinglePoint(t *testing.T) {
	res, err := tsp.BranchAndBound(testDense(t, [][]float64{{0, 5}, {5, 0}}), tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, res.Tour)
	assert.Equal(t, 10.0, res.Cost)
}

func TestBranchAndBound_DepotOnly(t *testing.T) {
	res, err := tsp.BranchAndBound(testDense(t, [][]float64{{0}}), tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, res.Tour)
	assert.Zero(t, res.Cost)
	assert.Equal(t, tsp.StatusOptimal, res.Status)
}

// ------------------------------------------------------------------------
// 2. Optimality and invariants on random asymmetric instances
// ------------------------------------------------------------------------

func TestBranchAndBound_MatchesBruteForce(t *testing.T) {
	for n := 3; n <= 8; n++ {
		for seed := int64(1); seed <= 5; seed++ {
			m := randomAsymmetric(t, n, seed*int64(n))
			want := bruteForce(m.Rows2D())

			for _, opts := range []tsp.Options{
				tsp.DefaultOptions(),
				{Eps: tsp.DefaultEps, BoundAlgo: tsp.NoBound},
				{Eps: tsp.DefaultEps, BoundAlgo: tsp.SimpleBound, SeedUpperBound: false},
			} {
				res, err := tsp.BranchAndBound(m, opts)
				require.NoError(t, err)
				require.NoError(t, tsp.ValidateTour(res.Tour, n), "tour %v", res.Tour)
				assert.Equal(t, want, res.Cost, "n=%d seed=%d", n, seed)

				cost, err := tsp.TourCost(m, res.Tour)
				require.NoError(t, err)
				assert.Equal(t, res.Cost, cost)
			}
		}
	}
}

func TestBranchAndBound_Deterministic(t *testing.T) {
	m := randomAsymmetric(t, 9, 42)
	first, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	require.NoError(t, err)
	second, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBranchAndBound_DoesNotMutateInput(t *testing.T) {
	m := depotAB(t)
	before := m.Rows2D()
	_, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, before, m.Rows2D())
}

// ------------------------------------------------------------------------
// 3. Time budget
// ------------------------------------------------------------------------

func TestBranchAndBound_NoTourWithinBudget(t *testing.T) {
	opts := tsp.DefaultOptions()
	opts.TimeLimit = time.Nanosecond
	opts.SeedUpperBound = false

	_, err := tsp.BranchAndBound(randomAsymmetric(t, 10, 7), opts)
	assert.ErrorIs(t, err, tsp.ErrNoFeasibleSolutionWithinBudget)
}

func TestBranchAndBound_AnytimeReturnsValidTour(t *testing.T) {
	opts := tsp.DefaultOptions()
	opts.TimeLimit = time.Nanosecond

	m := randomAsymmetric(t, 12, 3)
	res, err := tsp.BranchAndBound(m, opts)
	require.NoError(t, err)
	assert.Equal(t, tsp.StatusTimeLimited, res.Status)
	assert.False(t, res.Exact())
	require.NoError(t, tsp.ValidateTour(res.Tour, 12))

	cost, err := tsp.TourCost(m, res.Tour)
	require.NoError(t, err)
	assert.Equal(t, res.Cost, cost)
}

// ------------------------------------------------------------------------
// 4. Infeasible and malformed input
// ------------------------------------------------------------------------

func TestBranchAndBound_IncompleteGraph(t *testing.T) {
	// Two 2-cycles {0,1} and {2,3}: every vertex has finite in/out arcs,
	// but no Hamiltonian cycle exists.
	m := testDense(t, [][]float64{
		{0, 1, inf, inf},
		{1, 0, inf, inf},
		{inf, inf, 0, 1},
		{inf, inf, 1, 0},
	})
	_, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrIncompleteGraph)

	// Vertex 2 cannot be entered at all.
	m = testDense(t, [][]float64{
		{0, 1, inf},
		{1, 0, inf},
		{1, 1, 0},
	})
	_, err = tsp.BranchAndBound(m, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrIncompleteGraph)
}

func TestBranchAndBound_MissingArcsAvoided(t *testing.T) {
	// Only the ring 0→1→2→3→0 plus expensive chords is available.
	m := testDense(t, [][]float64{
		{0, 1, inf, 50},
		{inf, 0, 1, inf},
		{50, inf, 0, 1},
		{1, 50, inf, 0},
	})
	res, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 0}, res.Tour)
	assert.Equal(t, 4.0, res.Cost)
}

func TestBranchAndBound_Validation(t *testing.T) {
	_, err := tsp.BranchAndBound(nil, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrNilMatrix)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = tsp.BranchAndBound(rect, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrNonSquare)

	_, err = tsp.BranchAndBound(testDense(t, [][]float64{{0, -1}, {1, 0}}), tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrNegativeWeight)

	bad := tsp.DefaultOptions()
	bad.Eps = -1
	_, err = tsp.BranchAndBound(depotAB(t), bad)
	assert.ErrorIs(t, err, tsp.ErrBadOptions)

	bad = tsp.DefaultOptions()
	bad.BoundAlgo = tsp.BoundAlgo(9)
	_, err = tsp.BranchAndBound(depotAB(t), bad)
	assert.ErrorIs(t, err, tsp.ErrBadOptions)
}

func TestBranchAndBound_ConcurrentSolvesAreIndependent(t *testing.T) {
	ms := make([]*matrix.Dense, 6)
	want := make([]float64, len(ms))
	for i := range ms {
		ms[i] = randomAsymmetric(t, 7, int64(100+i))
		want[i] = bruteForce(ms[i].Rows2D())
	}

	got := make([]float64, len(ms))
	errs := make([]error, len(ms))
	done := make(chan int)
	for i := range ms {
		go func(i int) {
			res, err := tsp.BranchAndBound(ms[i], tsp.DefaultOptions())
			got[i], errs[i] = res.Cost, err
			done <- i
		}(i)
	}
	for range ms {
		<-done
	}
	for i := range ms {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i], got[i])
	}
}
