package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"incorporation-portal/internal/domain/failure"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Limiter counts hits per key within a window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	Reset(ctx context.Context, key string) error
}

// RateLimit throttles by client IP. A request that succeeds clears the
// counter, so only failed attempts accumulate. When the counter store is down
// requests are let through.
func RateLimit(l Limiter, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const op = "middleware.RateLimit"
			key := c.Path() + ":" + c.RealIP()
			ctx := c.Request().Context()
			ok, retry, err := l.Allow(ctx, key)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if !ok {
				secs := int(math.Ceil(retry.Seconds()))
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return failure.Newf(failure.KindTooManyRequests, op, "limit exceeded for "+key)
			}

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status < 400 {
				if err := l.Reset(ctx, key); err != nil {
					log.Warn("rate limiter reset failed", zap.String("key", key), zap.Error(err))
				}
			}
			return nil
		}
	}
}
