package repository

import (
	"context"
	"time"
)

// SessionStore is the single source of truth for live sessions. All four
// operations are atomic with respect to each other: no caller observes a
// session mid-mutation, and a sweep starting after a renew commits sees the
// renewed timestamp.
type SessionStore interface {
	// Create issues a fresh token for the user, replacing any prior session.
	// The replaced token becomes invalid immediately.
	Create(ctx context.Context, userID string) (string, error)

	// Renew bumps the session's liveness timestamp. A missing session and a
	// token mismatch both return domain.ErrUnauthorized.
	Renew(ctx context.Context, userID, token string) error

	// Resolve maps a bearer token back to the owning user id, or
	// domain.ErrUnauthorized if no live session holds it.
	Resolve(ctx context.Context, token string) (string, error)

	// Sweep evicts every session whose last renewal is strictly older than
	// ttl and returns the eviction count. Idempotent.
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}
