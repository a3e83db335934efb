package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	httpadapter "incorporation-portal/internal/adapter/http"
	"incorporation-portal/internal/domain/failure"
	"incorporation-portal/internal/domain/session"
	"incorporation-portal/internal/domain/user"
	"incorporation-portal/internal/infrastructure/cache"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuth struct {
	sessions map[string]session.Session
	err      error
}

func (f fakeAuth) Authenticate(_ context.Context, raw string) (session.Session, error) {
	if f.err != nil {
		return session.Session{}, f.err
	}
	s, ok := f.sessions[raw]
	if !ok {
		return session.Session{}, failure.Newf(failure.KindUnauthenticated, "fake", "unknown token")
	}
	return s, nil
}

var testAuth = fakeAuth{sessions: map[string]session.Session{
	"user-token":  {ID: "s1", UserID: "u1", Role: user.RoleUser, Authenticated: true},
	"admin-token": {ID: "s2", UserID: "u2", Role: user.RoleAdmin, Authenticated: true},
}}

func whoami(c echo.Context) error {
	s, ok := session.FromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusOK, map[string]string{"user": "anonymous"})
	}
	return c.JSON(http.StatusOK, map[string]string{"user": s.UserID})
}

func newAuthEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpadapter.ErrorHandler(zap.NewNop())
	e.GET("/x", whoami, mw...)
	return e
}

func bearer(tok string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + tok}
}

func TestRequireAuth(t *testing.T) {
	e := newAuthEcho(RequireAuth(testAuth))

	if rec := doReq(t, e, http.MethodGet, "/x", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token => want 401, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodGet, "/x", nil, bearer("bogus")); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token => want 401, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodGet, "/x", nil, bearer("user-token"))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"user\":\"u1\"}\n" {
		t.Fatalf("valid token => want 200 u1, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	e := newAuthEcho(OptionalAuth(testAuth))

	rec := doReq(t, e, http.MethodGet, "/x", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"user\":\"anonymous\"}\n" {
		t.Fatalf("no token => want anonymous, got %d %s", rec.Code, rec.Body.String())
	}
	rec = doReq(t, e, http.MethodGet, "/x", nil, bearer("bogus"))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"user\":\"anonymous\"}\n" {
		t.Fatalf("stale token => want anonymous, got %d %s", rec.Code, rec.Body.String())
	}
	rec = doReq(t, e, http.MethodGet, "/x", nil, bearer("admin-token"))
	if rec.Body.String() != "{\"user\":\"u2\"}\n" {
		t.Fatalf("valid token => want u2, got %s", rec.Body.String())
	}

	down := fakeAuth{err: failure.New(failure.KindUnavailable, "fake", errors.New("redis down"))}
	e = newAuthEcho(OptionalAuth(down))
	if rec := doReq(t, e, http.MethodGet, "/x", nil, bearer("user-token")); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store outage => want 503, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := newAuthEcho(RequireAuth(testAuth), RequireRole(user.RoleAdmin))

	if rec := doReq(t, e, http.MethodGet, "/x", nil, bearer("user-token")); rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route => want 403, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodGet, "/x", nil, bearer("admin-token")); rec.Code != http.StatusOK {
		t.Fatalf("admin => want 200, got %d", rec.Code)
	}

	e = newAuthEcho(RequireRole(user.RoleAdmin))
	if rec := doReq(t, e, http.MethodGet, "/x", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no session => want 401, got %d", rec.Code)
	}
}

// newLimitedEcho serves /login behind RateLimit. The handler accepts only
// password "right" and the client address is the TCP peer.
func newLimitedEcho(l Limiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = echo.ExtractIPDirect()
	e.HTTPErrorHandler = httpadapter.ErrorHandler(zap.NewNop())
	e.POST("/login", func(c echo.Context) error {
		if c.QueryParam("password") != "right" {
			return failure.Newf(failure.KindWrongCredential, "test", "bad password")
		}
		return c.NoContent(http.StatusOK)
	}, RateLimit(l, zap.NewNop()))
	return e
}

func login(e *echo.Echo, from, password string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login?password="+password, nil)
	req.RemoteAddr = from + ":40000"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := newLimitedEcho(cache.NewRateLimiter(rdb, "rl:test:", 2, time.Minute))

	for i := 0; i < 2; i++ {
		if rec := login(e, "192.0.2.1", "wrong", nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("failure %d => want 401, got %d", i, rec.Code)
		}
	}
	rec := login(e, "192.0.2.1", "right", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt => want 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After header missing")
	}

	// other clients are counted separately
	if rec := login(e, "198.51.100.7", "wrong", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("other ip => want 401, got %d", rec.Code)
	}
}

func TestRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := newLimitedEcho(cache.NewRateLimiter(rdb, "rl:test:", 2, time.Minute))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		hdr := map[string]string{
			echo.HeaderXForwardedFor: "10.0.0." + strconv.Itoa(i),
			echo.HeaderXRealIP:       "10.1.0." + strconv.Itoa(i),
		}
		codes = append(codes, login(e, "192.0.2.1", "wrong", hdr).Code)
	}
	if codes[2] != http.StatusTooManyRequests || codes[3] != http.StatusTooManyRequests {
		t.Fatalf("rotating forwarded headers must not reset the count, got %v", codes)
	}
}

func TestRateLimit_SuccessClearsCounter(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := newLimitedEcho(cache.NewRateLimiter(rdb, "rl:test:", 2, time.Minute))

	for i := 0; i < 5; i++ {
		if rec := login(e, "192.0.2.1", "right", nil); rec.Code != http.StatusOK {
			t.Fatalf("good login %d => want 200, got %d", i, rec.Code)
		}
	}

	login(e, "192.0.2.1", "wrong", nil)
	login(e, "192.0.2.1", "right", nil)
	login(e, "192.0.2.1", "wrong", nil)
	if rec := login(e, "192.0.2.1", "wrong", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("failures before a success must not count, got %d", rec.Code)
	}
	if rec := login(e, "192.0.2.1", "wrong", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third failure in a row => want 429, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	mr.Close()
	e := newLimitedEcho(cache.NewRateLimiter(rdb, "rl:test:", 1, time.Minute))
	for i := 0; i < 3; i++ {
		if rec := login(e, "192.0.2.1", "right", nil); rec.Code != http.StatusOK {
			t.Fatalf("hit %d with store down => want 200, got %d", i, rec.Code)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := newAuthEcho(RequestLogger(zap.New(core)))

	doReq(t, e, http.MethodGet, "/x?q=1", nil, nil)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["route"] != "/x" || fields["uri"] != "/x?q=1" || fields["method"] != http.MethodGet {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("status field = %v", fields["status"])
	}
}
