package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"incorporation-portal/internal/domain/session"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "portal:session:"

// SessionStore keeps sessions in Redis as JSON with a TTL.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore { return &SessionStore{rdb: rdb} }

func (s *SessionStore) Save(ctx context.Context, sess session.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, b, ttl).Err()
}

func (s *SessionStore) Load(ctx context.Context, id string) (session.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, err
	}
	var out session.Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return session.Session{}, err
	}
	return out, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}
