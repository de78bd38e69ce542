package tsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/tsp"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]tsp.Kind{
		"":           tsp.KindExact,
		"exact":      tsp.KindExact,
		" Heuristic": tsp.KindHeuristic,
	} {
		got, err := tsp.ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := tsp.ParseKind("genetic")
	assert.ErrorIs(t, err, tsp.ErrUnknownStrategy)
}

func TestNewStrategy_Interchangeable(t *testing.T) {
	for _, kind := range []tsp.Kind{tsp.KindExact, tsp.KindHeuristic} {
		s, err := tsp.NewStrategy(kind, tsp.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, string(kind), s.Name())

		res, err := s.Solve(depotAB(t))
		require.NoError(t, err)
		assert.Equal(t, 7.0, res.Cost)
	}

	_, err := tsp.NewStrategy("genetic", tsp.DefaultOptions())
	assert.ErrorIs(t, err, tsp.ErrUnknownStrategy)

	bad := tsp.DefaultOptions()
	bad.TimeLimit = -1
	_, err = tsp.NewStrategy(tsp.KindExact, bad)
	assert.ErrorIs(t, err, tsp.ErrBadOptions)
}
