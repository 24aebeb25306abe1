// Package store provides session table implementations: an in-memory map for
// single-instance deployments (the default) and a Redis-backed variant for
// running more than one bot instance behind the gateway.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

// InMemorySessionStore keeps sessions for the lifetime of the process, which
// is the flow's documented contract: restarting the bot restarts onboarding.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *InMemorySessionStore) Get(_ context.Context, userID string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[userID]; ok {
		return session, nil
	}
	return models.Session{}, sentinel.ErrNotFound
}

func (s *InMemorySessionStore) Put(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatedAt = time.Now()
	s.sessions[session.UserID] = session
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *InMemorySessionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}
