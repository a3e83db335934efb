package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "portal:idemp:"

type replayState string

const (
	statePending replayState = "pending"
	stateDone    replayState = "done"
)

// replayEntry is what is kept per (route, caller, request id).
type replayEntry struct {
	State       replayState `json:"state"`
	Status      int         `json:"status,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Body        []byte      `json:"body,omitempty"`
	BodyHash    string      `json:"body_hash"`
	RequestAt   int64       `json:"request_at_ms"`
	StoredAt    time.Time   `json:"stored_at"`
}

func (e replayEntry) replayable() bool { return e.State == stateDone && e.Status != 0 }

// replayStore keeps entries in Redis. A pending entry lives for lockTTL, a
// finished one for ttl.
type replayStore struct {
	rdb     *redis.Client
	lockTTL time.Duration
	ttl     time.Duration
}

func replayKey(method, route, actor, requestID string) string {
	return replayKeyPrefix + strings.ToLower(method) + ":" + route + ":" + actor + ":" + requestID
}

// reserve claims key. It returns false when an entry already exists.
func (s replayStore) reserve(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.State = statePending
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

func (s replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	e.State = stateDone
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// release drops a reservation so the client may retry.
func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func hashBody(b []byte) string { sum := sha256.Sum256(b); return hex.EncodeToString(sum[:]) }

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// normalizeRequestID lower-cases id and reports whether it is a UUID (v1-v5)
// or 32 hex characters.
func normalizeRequestID(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	return id, reUUID.MatchString(id) || reHex32.MatchString(id)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with a
// zone. Naive local timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing Ax-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
}
