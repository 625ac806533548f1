package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/clock"
	"github.com/mywallet/backend/repository"
)

type sessionStore struct {
	clock clock.Clock

	mu      sync.Mutex
	byUser  map[string]*domain.Session
	byToken map[string]string
}

// NewSessionStore creates the in-process session store. Every operation runs
// under one lock, which keeps create/renew/resolve/sweep linearizable and
// preserves the at-most-one-session-per-user invariant.
func NewSessionStore(clk clock.Clock) repository.SessionStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &sessionStore{
		clock:   clk,
		byUser:  make(map[string]*domain.Session),
		byToken: make(map[string]string),
	}
}

func (s *sessionStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidPayload
	}

	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byUser[userID]; ok {
		delete(s.byToken, prev.Token)
	}
	s.byUser[userID] = &domain.Session{
		UserID:        userID,
		Token:         token,
		LastRenewedAt: s.clock.Now(),
	}
	s.byToken[token] = userID

	return token, nil
}

func (s *sessionStore) Renew(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byUser[userID]
	if !ok || session.Token != token {
		// One error for both cases so callers cannot tell a missing session
		// from a stale token.
		return domain.ErrUnauthorized
	}
	session.LastRenewedAt = s.clock.Now()
	return nil
}

func (s *sessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.byToken[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *sessionStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One reading of the clock per sweep so a long pass stays consistent.
	now := s.clock.Now()

	evicted := 0
	for userID, session := range s.byUser {
		if session.Expired(now, ttl) {
			delete(s.byUser, userID)
			delete(s.byToken, session.Token)
			evicted++
		}
	}
	return evicted, nil
}
