package session_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/internal/testutil"
	"github.com/katalvlaran/courierround/mutation"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/session"
	"github.com/katalvlaran/courierround/tsp"
)

var ctx = context.Background()

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	opts := tsp.DefaultOptions()
	s, err := tsp.NewStrategy(tsp.KindExact, opts)
	require.NoError(t, err)
	a := round.NewAssembler(s)
	a.Timing.Date = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	return session.NewManager(a, opts)
}

func loaded(t *testing.T, m *session.Manager, couriers int, addrs ...string) *session.Session {
	t.Helper()
	s, err := m.Create(testutil.Grid(t, 3, 3, 100))
	require.NoError(t, err)
	require.NoError(t, s.LoadDeliveries(testutil.GridID(0, 0), addrs))
	require.NoError(t, s.SetCourierCount(couriers))

	return s
}

func TestManager_Lifecycle(t *testing.T) {
	m := newManager(t)

	_, err := m.Create(nil)
	assert.ErrorIs(t, err, round.ErrNilGraph)

	s, err := m.Create(testutil.Grid(t, 2, 2, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	got, err = m.Lookup(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, m.Delete(s.ID))
	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, m.Delete(s.ID), session.ErrNotFound)
}

func TestSession_ComputeAndEdit(t *testing.T) {
	s := loaded(t, newManager(t), 2, "r0c2", "r2c2", "r2c0")

	tours, err := s.ComputeRound(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, tours, 2)
	for _, tour := range tours {
		assert.Equal(t, tsp.StatusOptimal, tour.Status)
	}

	out, err := s.Apply(ctx, mutation.Add("r1c1"))
	require.NoError(t, err)
	assert.True(t, out.Recomputed)
	assert.Equal(t, []string{"add r1c1"}, s.History())

	out, err = s.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, out.Recomputed)
	assert.Equal(t, []string{"r0c2", "r2c2", "r2c0"}, s.Round().Addresses())

	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Len(t, s.Round().Requests, 4)
	assert.NotEmpty(t, s.Report())
}

func TestSession_StrategySticksForRecompute(t *testing.T) {
	s := loaded(t, newManager(t), 1, "r0c2", "r2c2", "r2c0")

	tours, err := s.ComputeRound(ctx, time.Second, tsp.KindHeuristic)
	require.NoError(t, err)
	assert.Equal(t, tsp.StatusHeuristic, tours[0].Status)

	out, err := s.Apply(ctx, mutation.Add("r1c1"))
	require.NoError(t, err)
	require.True(t, out.Recomputed)
	assert.Equal(t, tsp.StatusHeuristic, out.Tours[0].Status)

	_, err = s.ComputeRound(ctx, 0, "bogus")
	assert.ErrorIs(t, err, tsp.ErrUnknownStrategy)
}

func TestSession_LoadDeliveriesResetsHistory(t *testing.T) {
	s := loaded(t, newManager(t), 1, "r0c2")

	_, err := s.Apply(ctx, mutation.Add("r2c2"))
	require.NoError(t, err)
	require.NoError(t, s.LoadDeliveries(testutil.GridID(1, 1), []string{"r0c0"}))

	assert.Empty(t, s.History())
	_, err = s.Undo(ctx)
	assert.ErrorIs(t, err, mutation.ErrNothingToUndo)
	assert.Nil(t, s.Tours())
}

func TestSession_ShortestPath(t *testing.T) {
	s := loaded(t, newManager(t), 1, "r0c2")

	d, secs, err := s.ShortestPath(testutil.GridID(0, 0), testutil.GridID(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 200.0, d)
	assert.Len(t, secs, 2)
	assert.Nil(t, s.Tours(), "diagnostics never solve")
}

func TestSession_SnapshotRestore(t *testing.T) {
	m := newManager(t)
	src := loaded(t, m, 2, "r0c2", "r2c2", "r2c0")
	_, err := src.ComputeRound(ctx, 0, "")
	require.NoError(t, err)

	raw, err := json.Marshal(src.Snapshot())
	require.NoError(t, err)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	dst, err := m.Create(testutil.Grid(t, 3, 3, 100))
	require.NoError(t, err)
	require.NoError(t, dst.Restore(snap))

	r := dst.Round()
	assert.Equal(t, []string{"r0c2", "r2c2", "r2c0"}, r.Addresses())
	assert.Equal(t, testutil.GridID(0, 0), r.Depot)
	require.Len(t, r.Tours, 2)
	for c, tour := range src.Tours() {
		assert.Equal(t, tour.Addresses(), r.Tours[c].Addresses())
		assert.Equal(t, tour.Length, r.Tours[c].Length)
		assert.Equal(t, tour.Status, r.Tours[c].Status)
	}

	other, err := m.Create(testutil.Grid(t, 2, 2, 100))
	require.NoError(t, err)
	assert.ErrorIs(t, other.Restore(snap), session.ErrFingerprintMismatch)
	assert.ErrorIs(t, other.Restore(session.Snapshot{}), session.ErrEmptySnapshot)
}

func TestSession_ConcurrentEdits(t *testing.T) {
	s := loaded(t, newManager(t), 1, "r0c2")
	_, err := s.ComputeRound(ctx, 0, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Apply(ctx, mutation.Add("r2c2"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	r := s.Round()
	assert.Len(t, r.Requests, 9)
	served := 0
	for _, tour := range r.Tours {
		served += len(tour.Requests)
	}
	assert.Equal(t, 9, served)
}

func TestSession_SolveWindow(t *testing.T) {
	opts := tsp.DefaultOptions()
	strategy, err := tsp.NewStrategy(tsp.KindExact, opts)
	require.NoError(t, err)
	a := round.NewAssembler(strategy)
	a.MaxParallel = 2

	s, err := session.NewManager(a, opts).Create(testutil.Grid(t, 3, 3, 100))
	require.NoError(t, err)
	require.NoError(t, s.LoadDeliveries(testutil.GridID(0, 0), []string{"r0c2", "r2c2", "r2c0"}))
	require.NoError(t, s.SetCourierCount(3))

	assert.Equal(t, 2*time.Second, s.SolveWindow(time.Second))
	assert.Equal(t, 2*tsp.DefaultTimeLimit, s.SolveWindow(0))
}
