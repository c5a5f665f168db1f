// Package memory provides in-memory store implementations for testing.
package memory

import (
	"sync"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.TokenStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.TokenStore.
type SessionStore struct {
	mu      sync.Mutex
	session *domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Get returns the stored session, or nil when logged out.
func (s *SessionStore) Get() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

// Put stores a session, replacing any previous one.
func (s *SessionStore) Put(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
	return nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
