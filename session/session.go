package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/dijkstra"
	"github.com/katalvlaran/courierround/mutation"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/tsp"
)

var (
	// ErrNotFound indicates an unknown session id.
	ErrNotFound = errors.New("session: not found")

	// ErrFingerprintMismatch indicates a snapshot taken on another map.
	ErrFingerprintMismatch = errors.New("session: snapshot belongs to another map")

	// ErrEmptySnapshot indicates a snapshot without a round.
	ErrEmptySnapshot = errors.New("session: snapshot has no round")
)

// Snapshot is the serializable state of a session's round.
type Snapshot struct {
	Fingerprint string       `json:"fingerprint"`
	Round       *round.Round `json:"round"`
}

// Session is one user's delivery round over one loaded map. Every method
// holds the session lock for its whole duration, so a solve and an edit of
// the same round never interleave.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	mu        sync.Mutex
	round     *round.Round
	log       *mutation.Log
	assembler *round.Assembler
	options   tsp.Options
	kind      tsp.Kind
}

func newSession(g *core.RoadGraph, a *round.Assembler, opts tsp.Options) (*Session, error) {
	r, err := round.New(g)
	if err != nil {
		return nil, err
	}
	kind := tsp.KindExact
	if a.Strategy != nil {
		kind = tsp.Kind(a.Strategy.Name())
	}
	s := &Session{
		ID:        uuid.New(),
		Created:   time.Now(),
		round:     r,
		assembler: a,
		options:   opts,
		kind:      kind,
	}
	s.log = mutation.NewLog(r, recomputer{s})

	return s, nil
}

// recomputer refreshes tours with the strategy of the last ComputeRound.
// It runs under the session lock taken by the caller.
type recomputer struct{ s *Session }

func (rc recomputer) ComputeRound(ctx context.Context, r *round.Round) (map[int]*round.DeliveryTour, error) {
	return rc.s.assembler.ComputeRound(ctx, r)
}

func (rc recomputer) InsertIntoTour(ctx context.Context, r *round.Round, courier int, req round.DeliveryRequest) (*round.DeliveryTour, error) {
	return rc.s.assembler.InsertIntoTour(ctx, r, courier, req)
}

// Graph returns the session's road graph.
func (s *Session) Graph() *core.RoadGraph {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.round.Graph
}

// LoadDeliveries replaces depot and delivery points and forgets the history.
func (s *Session) LoadDeliveries(depot string, points []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.round.LoadDeliveries(depot, points); err != nil {
		return err
	}
	s.log.Reset()
	log.Printf("[SESSION] %s: loaded %d deliveries, depot %s", s.ID, len(points), depot)

	return nil
}

// SetCourierCount takes effect at the next ComputeRound.
func (s *Session) SetCourierCount(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.round.SetCourierCount(n)
}

// ComputeRound solves every courier's tour with the given budget and
// strategy. A zero budget keeps the configured time limit; an empty kind
// keeps the configured strategy. The choice sticks for later recomputes
// triggered by edits.
func (s *Session) ComputeRound(ctx context.Context, budget time.Duration, kind tsp.Kind) (map[int]*round.DeliveryTour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.options
	if budget > 0 {
		opts.TimeLimit = budget
	}
	if kind == "" {
		kind = s.kind
	}
	strategy, err := tsp.NewStrategy(kind, opts)
	if err != nil {
		return nil, err
	}
	s.assembler = s.assembler.WithStrategy(strategy)
	s.kind = kind

	return s.assembler.ComputeRound(ctx, s.round)
}

// SolveWindow bounds the solver time of one ComputeRound with the given
// budget (0 means the configured limit): one budget per wave of parallel
// courier solves.
func (s *Session) SolveWindow(budget time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if budget <= 0 {
		budget = s.options.TimeLimit
	}

	return budget * time.Duration(s.assembler.Waves(len(s.round.Couriers)))
}

// Tours returns the live tours; nil before the first ComputeRound.
func (s *Session) Tours() map[int]*round.DeliveryTour {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.round.Tours
}

// Round returns a copy of the round for read-only use.
func (s *Session) Round() *round.Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.round.Clone()
}

// Apply runs cmd through the undo log.
func (s *Session) Apply(ctx context.Context, cmd mutation.Command) (mutation.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.log.Apply(ctx, cmd)
}

// Undo reverts the last edit.
func (s *Session) Undo(ctx context.Context) (mutation.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.log.Undo(ctx)
}

// Redo re-applies the last undone edit.
func (s *Session) Redo(ctx context.Context) (mutation.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.log.Redo(ctx)
}

// History lists the undoable edits, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.log.History()
}

// ShortestPath returns the shortest route between two intersections
// without touching the round.
func (s *Session) ShortestPath(from, to string) (float64, []core.Section, error) {
	s.mu.Lock()
	g := s.round.Graph
	s.mu.Unlock()

	return dijkstra.ShortestPathByID(g, from, to)
}

// Report renders the itinerary of every live tour.
func (s *Session) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return round.ReportRound(s.round)
}

// Snapshot captures the round for persistence.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{Fingerprint: s.round.Graph.Fingerprint(), Round: s.round.Clone()}
}

// Restore replaces the round with snap and forgets the history. snap must
// have been taken on the same map.
func (s *Session) Restore(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.round.Graph
	if snap.Round == nil {
		return ErrEmptySnapshot
	}
	if snap.Fingerprint != g.Fingerprint() {
		return ErrFingerprintMismatch
	}
	r := snap.Round.Clone()
	r.Graph = g
	addrs := r.Addresses()
	if r.Depot != "" {
		addrs = append(addrs, r.Depot)
	}
	for _, a := range addrs {
		if !g.Has(a) {
			return fmt.Errorf("session: restore: %w: %s", core.ErrUnknownIntersection, a)
		}
	}
	if len(r.Couriers) == 0 {
		r.Couriers = []round.Courier{{ID: 0}}
	}

	s.round = r
	s.log = mutation.NewLog(r, recomputer{s})
	log.Printf("[SESSION] %s: restored %d deliveries, %d tours", s.ID, len(r.Requests), len(r.Tours))

	return nil
}
