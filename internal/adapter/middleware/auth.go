package middleware

import (
	"context"

	httpadapter "incorporation-portal/internal/adapter/http"
	"incorporation-portal/internal/domain/failure"
	"incorporation-portal/internal/domain/session"
	"incorporation-portal/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// Authenticator resolves a bearer token to a server-verified session.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (session.Session, error)
}

func attach(c echo.Context, s session.Session) {
	req := c.Request()
	c.SetRequest(req.WithContext(session.WithSession(req.Context(), s)))
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := a.Authenticate(c.Request().Context(), httpadapter.BearerToken(c.Request()))
			if err != nil {
				return err
			}
			attach(c, s)
			return next(c)
		}
	}
}

// OptionalAuth attaches the session when a valid token is present and
// otherwise lets the request through anonymously. Store outages still fail.
func OptionalAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := httpadapter.BearerToken(c.Request())
			if raw == "" {
				return next(c)
			}
			s, err := a.Authenticate(c.Request().Context(), raw)
			switch {
			case err == nil:
				attach(c, s)
			case failure.Is(err, failure.KindUnauthenticated):
			default:
				return err
			}
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const op = "middleware.RequireRole"
			s, ok := session.FromContext(c.Request().Context())
			if !ok {
				return failure.Newf(failure.KindUnauthenticated, op, "no session")
			}
			if s.Role != role {
				return failure.Newf(failure.KindPermissionDenied, op, "role "+string(s.Role)+" not allowed")
			}
			return next(c)
		}
	}
}
