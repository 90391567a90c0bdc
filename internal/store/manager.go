package store

import (
	"context"
	"sync"
)

// Manager hands out one Store per authenticated identity. A store is created
// and loaded on first use and dropped on sign-out, so a returning identity
// always starts from a fresh load.
type Manager struct {
	mu      sync.Mutex
	backend Backend
	events  EventPublisher
	stores  map[string]*Store
}

func NewManager(backend Backend, events EventPublisher) *Manager {
	return &Manager{
		backend: backend,
		events:  events,
		stores:  make(map[string]*Store),
	}
}

// Get returns the store for owner, loading it from the backing store the
// first time the identity is seen.
func (m *Manager) Get(ctx context.Context, owner string) (*Store, error) {
	if owner == "" {
		return nil, ErrNotSignedIn
	}
	m.mu.Lock()
	s, ok := m.stores[owner]
	if !ok {
		s = New(m.backend, m.events)
		m.stores[owner] = s
	}
	m.mu.Unlock()

	if !ok {
		if err := s.Load(ctx, owner); err != nil {
			m.Drop(owner)
			return nil, err
		}
	}
	return s, nil
}

// Drop discards the in-memory store for owner, typically on sign-out.
func (m *Manager) Drop(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, owner)
}
