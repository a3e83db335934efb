package session

import (
	"context"

	"incorporation-portal/internal/domain/failure"
)

// Require returns the caller's session or an unauthenticated failure.
func Require(ctx context.Context, op string) (Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return Session{}, failure.Newf(failure.KindUnauthenticated, op, "no session")
	}
	return s, nil
}

// RequireAdmin is Require plus an admin role check.
func RequireAdmin(ctx context.Context, op string) (Session, error) {
	s, err := Require(ctx, op)
	if err != nil {
		return Session{}, err
	}
	if !s.IsAdmin() {
		return Session{}, failure.Newf(failure.KindPermissionDenied, op, "admin role required")
	}
	return s, nil
}
