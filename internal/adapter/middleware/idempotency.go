package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	httpadapter "incorporation-portal/internal/adapter/http"
	"incorporation-portal/internal/domain/session"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderReplayed  = "Ax-Idempotent-Replay"

	pendingLockTTL = 60 * time.Second
	maxClockSkew   = 10 * time.Minute
	storeTimeout   = 2 * time.Second
)

// captureWriter tees the response into a buffer while it is written out.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Idempotency replays the stored response when a mutating request repeats an
// Ax-Request-Id with the same body. It is opt-in: without the header every
// request reaches the handler. Keys are scoped to route and caller, so two
// users may reuse an id. Server errors are not stored and free the id again.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, lockTTL: pendingLockTTL, ttl: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			rawID := req.Header.Get(HeaderRequestID)
			if strings.TrimSpace(rawID) == "" {
				return next(c)
			}
			reqID, ok := normalizeRequestID(rawID)
			if !ok {
				return badRequest(c, "invalid Ax-Request-Id format")
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return badRequest(c, err.Error())
			}
			now := time.Now().UTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return badRequest(c, "Ax-Request-At too skewed")
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := hashBody(body)

			key := replayKey(req.Method, c.Path(), actorOf(c), reqID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			fresh, err := store.reserve(ctx, key, replayEntry{BodyHash: hash, RequestAt: reqAt.UnixMilli(), StoredAt: now})
			if err != nil {
				log.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, httpadapter.ErrorResponse{Error: "idempotency store unavailable", Code: "unavailable"})
			}
			if !fresh {
				return replay(ctx, c, store, key, hash, log)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				c.Error(err)
			}

			// The request context may already be done; bookkeeping gets its own.
			bg, cancelBg := context.WithTimeout(context.Background(), storeTimeout)
			defer cancelBg()
			if cw.status >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			final := replayEntry{
				Status:      cw.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        cw.buf.Bytes(),
				BodyHash:    hash,
				RequestAt:   reqAt.UnixMilli(),
				StoredAt:    time.Now().UTC(),
			}
			if err := store.finish(bg, key, final); err != nil {
				log.Warn("idempotency entry save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, store replayStore, key, hash string, log *zap.Logger) error {
	cur, err := store.load(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn("idempotency entry load failed", zap.String("key", key), zap.Error(err))
	}
	if cur.BodyHash != "" && cur.BodyHash != hash {
		return c.JSON(http.StatusConflict, httpadapter.ErrorResponse{Error: "Ax-Request-Id reused with different body", Code: "conflict"})
	}
	if !cur.replayable() {
		return c.JSON(http.StatusConflict, httpadapter.ErrorResponse{Error: "request is already in progress", Code: "conflict"})
	}
	ct := cur.ContentType
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	if len(cur.Body) == 0 {
		return c.NoContent(cur.Status)
	}
	return c.Blob(cur.Status, ct, cur.Body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, httpadapter.ErrorResponse{Error: msg, Code: "validation"})
}

// actorOf scopes keys to the caller: the session user when there is one,
// else the client IP.
func actorOf(c echo.Context) string {
	if s, ok := session.FromContext(c.Request().Context()); ok {
		return "u:" + s.UserID
	}
	return "ip:" + c.RealIP()
}
