package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/matrix"
)

var inf = math.Inf(1)

// testDense builds a matrix.Dense from rows, failing the test on error.
func testDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// depotAB is the asymmetric depot/A/B instance: D→A 2, A→B 3, B→D 2,
// D→B 6, B→A 3, A→D 2.
func depotAB(t *testing.T) *matrix.Dense {
	return testDense(t, [][]float64{
		{0, 2, 6},
		{2, 0, 3},
		{2, 3, 0},
	})
}

// randomAsymmetric returns an n×n matrix with integer weights in [1, 100].
func randomAsymmetric(t *testing.T, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if i != j {
				rows[i][j] = float64(1 + rng.Intn(100))
			}
		}
	}

	return testDense(t, rows)
}

// bruteForce enumerates every tour from 0 and returns the minimum cost.
func bruteForce(rows [][]float64) float64 {
	n := len(rows)
	best := inf
	perm := make([]int, 0, n)
	used := make([]bool, n)
	var rec func(last int, cost float64)
	rec = func(last int, cost float64) {
		if len(perm) == n-1 {
			if c := cost + rows[last][0]; c < best {
				best = c
			}
			return
		}
		for v := 1; v < n; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			perm = append(perm, v)
			rec(v, cost+rows[last][v])
			perm = perm[:len(perm)-1]
			used[v] = false
		}
	}
	rec(0, 0)

	return best
}
