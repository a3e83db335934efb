package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Zero values fall back to the timeouts below.
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

// OpenRedis connects and pings once. Session, rate-limit and idempotency keys
// share the returned client under distinct prefixes.
func OpenRedis(ctx context.Context, o RedisOptions) (*redis.Client, error) {
	if o.DialTimeout == 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.OpTimeout == 0 {
		o.OpTimeout = 2 * time.Second
	}
	r := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.OpTimeout,
		WriteTimeout: o.OpTimeout,
	})
	ctx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", o.Addr)
	}
	return r, nil
}
