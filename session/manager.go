package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/tsp"
)

// Manager owns the live sessions of the process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	assembler *round.Assembler
	options   tsp.Options
}

// NewManager returns a Manager whose sessions copy a's configuration and
// solve with opts.
func NewManager(a *round.Assembler, opts tsp.Options) *Manager {
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		assembler: a,
		options:   opts,
	}
}

// Create opens a session on g with one courier and no deliveries.
func (m *Manager) Create(g *core.RoadGraph) (*Session, error) {
	s, err := newSession(g, m.assembler.WithStrategy(m.assembler.Strategy), m.options)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	st := g.Stats()
	log.Printf("[SESSION] created %s: %d intersections, %d sections (%d live)", s.ID, st.Intersections, st.Sections, n)

	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s, nil
}

// Lookup parses id and returns the session.
func (m *Manager) Lookup(id string) (*Session, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return m.Get(u)
}

// Delete tears the session down.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	log.Printf("[SESSION] deleted %s (%d live)", id, len(m.sessions))

	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
