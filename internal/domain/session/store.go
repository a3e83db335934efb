package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions server-side so that a token alone never grants
// access: logout deletes the record and the token stops working.
type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
