package sessionmock

import (
	"context"
	"sync"
	"time"

	"incorporation-portal/internal/domain/session"
)

var _ session.Store = (*Store)(nil)

// Store is an in-memory session.Store. Function fields, when set, override the
// map-backed behavior.
type Store struct {
	SaveFn   func(ctx context.Context, s session.Session, ttl time.Duration) error
	LoadFn   func(ctx context.Context, id string) (session.Session, error)
	DeleteFn func(ctx context.Context, id string) error

	mu   sync.Mutex
	data map[string]session.Session
}

func New() *Store { return &Store{data: map[string]session.Session{}} }

func (m *Store) Save(ctx context.Context, s session.Session, ttl time.Duration) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]session.Session{}
	}
	m.data[s.ID] = s
	return nil
}

func (m *Store) Load(ctx context.Context, id string) (session.Session, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (m *Store) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *Store) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
