package domain

import "time"

// Session is the live binding between a user and an opaque bearer token.
// It stays valid only while the client keeps renewing it; there is no
// explicit logout, absence of heartbeats is the sole termination signal.
type Session struct {
	UserID        string    `json:"user_id"`
	Token         string    `json:"token"`
	LastRenewedAt time.Time `json:"last_renewed_at"`
}

// Expired reports whether the session's last renewal is strictly older
// than ttl relative to the reference instant. A session exactly at the
// boundary is still alive.
func (s *Session) Expired(reference time.Time, ttl time.Duration) bool {
	if s == nil {
		return true
	}
	return reference.Sub(s.LastRenewedAt) > ttl
}
