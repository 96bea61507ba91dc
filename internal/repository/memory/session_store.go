// Package memory holds in-process session and lock implementations for a
// single server or CLI process.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SessionStore keeps sessions in a map. Sessions are stored serialized so
// callers never share state with the store.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ port.ReceptionSessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]entry), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session *domain.ReceptionSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("memory.SessionStore.Save: %w", err)
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[session.ID] = e
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.ReceptionSession, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.ReceptionSession
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("memory.SessionStore.Get: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Ping(context.Context) error {
	return nil
}
