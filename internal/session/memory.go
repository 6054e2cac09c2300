// Package session keeps admin back office sessions server-side.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/models"
)

type memoryEntry struct {
	session  models.AdminSession
	deadline time.Time
}

// MemoryStore is the in-process AdminSessionStore used when Redis is not
// configured. Sessions do not survive a restart. Like Redis it expires keys
// by ttl, independent of the session's own ExpiresAt.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[core.Hash]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[core.Hash]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, key core.Hash, session models.AdminSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	now := s.now()
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = now.Add(ttl)
	}
	s.sessions[key] = memoryEntry{session: session, deadline: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key core.Hash) (*models.AdminSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[key]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	if !s.now().Before(e.deadline) {
		delete(s.sessions, key)
		return nil, core.ErrSessionNotFound
	}
	session := e.session
	return &session, nil
}

func (s *MemoryStore) Delete(_ context.Context, key core.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

// Len counts live and not yet swept sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for k, e := range s.sessions {
		if !now.Before(e.deadline) {
			delete(s.sessions, k)
		}
	}
}
