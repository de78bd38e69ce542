package tsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/tsp"
)

func ring(n int) []int {
	t := make([]int, n+1)
	for i := 0; i < n; i++ {
		t[i] = i
	}

	return t
}

func TestLocalSearch_ImprovesAndKeepsPermutation(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		m := randomAsymmetric(t, 10, seed)
		start := ring(10)
		before, err := tsp.TourCost(m, start)
		require.NoError(t, err)

		tour, cost, err := tsp.LocalSearch(m, start, tsp.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, tsp.ValidateTour(tour, 10))
		assert.LessOrEqual(t, cost, before)

		recomputed, err := tsp.TourCost(m, tour)
		require.NoError(t, err)
		assert.InDelta(t, recomputed, cost, 1e-9)

		// Input is untouched.
		assert.Equal(t, ring(10), start)
	}
}

func TestLocalSearch_FixesReversedAsymmetricTour(t *testing.T) {
	tour, cost, err := tsp.LocalSearch(depotAB(t), []int{0, 2, 1, 0}, tsp.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, tour)
	assert.Equal(t, 7.0, cost)
}

func TestLocalSearch_MaxIters(t *testing.T) {
	m := randomAsymmetric(t, 12, 5)
	opts := tsp.DefaultOptions()
	opts.LocalSearchMaxIters = 1

	one, c1, err := tsp.LocalSearch(m, ring(12), opts)
	require.NoError(t, err)
	require.NoError(t, tsp.ValidateTour(one, 12))

	_, full, err := tsp.LocalSearch(m, ring(12), tsp.DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, full, c1)
}

func TestLocalSearch_RejectsBadTour(t *testing.T) {
	_, _, err := tsp.LocalSearch(depotAB(t), []int{0, 1, 1, 0}, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrInvalidTour)

	_, _, err = tsp.LocalSearch(depotAB(t), []int{1, 0, 2, 1}, tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrInvalidTour)
}

func TestCheapestInsertion(t *testing.T) {
	// Into D→A→D, B fits best after A: A→B→D adds 3+2−2.
	pos, delta, err := tsp.CheapestInsertion(depotAB(t), []int{0, 1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3.0, delta)

	// Empty tour.
	pos, delta, err = tsp.CheapestInsertion(depotAB(t), []int{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 8.0, delta)

	_, _, err = tsp.CheapestInsertion(depotAB(t), []int{0, 2, 0}, 2)
	assert.ErrorIs(t, err, tsp.ErrInvalidTour)
	_, _, err = tsp.CheapestInsertion(depotAB(t), []int{0, 1, 0}, 0)
	assert.ErrorIs(t, err, tsp.ErrInvalidTour)
}

func TestValidateTourAndCost(t *testing.T) {
	assert.NoError(t, tsp.ValidateTour([]int{0, 0}, 1))
	assert.NoError(t, tsp.ValidateTour([]int{0, 2, 1, 0}, 3))
	assert.ErrorIs(t, tsp.ValidateTour([]int{0, 2, 1}, 3), tsp.ErrInvalidTour)
	assert.ErrorIs(t, tsp.ValidateTour([]int{0, 2, 2, 0}, 3), tsp.ErrInvalidTour)
	assert.ErrorIs(t, tsp.ValidateTour([]int{0, 3, 1, 0}, 3), tsp.ErrInvalidTour)

	c, err := tsp.TourCost(depotAB(t), []int{0, 2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 11.0, c)

	m := testDense(t, [][]float64{{0, inf}, {1, 0}})
	_, err = tsp.TourCost(m, []int{0, 1, 0})
	assert.ErrorIs(t, err, tsp.ErrIncompleteGraph)
	_, err = tsp.TourCost(m, []int{0, 5})
	assert.ErrorIs(t, err, tsp.ErrDimensionMismatch)
}
