// Package session models who is calling and the route gate built on it.
package session

import (
	"context"
	"time"

	"incorporation-portal/internal/domain/user"
)

// Session is the server-verified identity of a caller. A zero Session is an
// anonymous caller.
type Session struct {
	ID            string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Role          user.Role `json:"role"`
	Authenticated bool      `json:"is_authenticated"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether s is past its expiry at now. A zero expiry never
// expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) IsAdmin() bool { return s.Authenticated && s.Role == user.RoleAdmin }

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the caller's session; ok is false for anonymous callers.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || !s.Authenticated {
		return Session{}, false
	}
	return s, true
}
