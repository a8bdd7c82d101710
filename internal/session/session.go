// Package session issues and resolves opaque bearer tokens for logged-in
// users. Sessions are server-side state: logging out invalidates the token
// immediately.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned for unknown or expired tokens.
var ErrNoSession = errors.New("no such session")

// DefaultTTL is how long a session stays valid without re-login.
const DefaultTTL = 7 * 24 * time.Hour

// Store manages session tokens.
type Store interface {
	// Create issues a fresh token for userID.
	Create(ctx context.Context, userID string) (string, error)

	// Get resolves a token to its user ID.
	Get(ctx context.Context, token string) (string, error)

	// Delete invalidates a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with per-session expiry. Expired
// entries are dropped lazily on lookup.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store with the given TTL; ttl <= 0 selects
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return "", ErrNoSession
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return "", ErrNoSession
	}
	return e.userID, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
