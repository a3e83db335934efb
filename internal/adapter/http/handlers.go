package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"incorporation-portal/internal/domain/session"

	"github.com/labstack/echo/v4"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

// Health runs every dependency check with a short deadline. Any failure turns
// the answer into 503 so load balancers stop routing here.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	return c.JSON(code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"checks": results,
	})
}

// RouteAccess answers the session gate for ?path= using the caller's
// server-verified session.
func (h *Handler) RouteAccess(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing path query param", Code: "validation"})
	}
	s, _ := session.FromContext(c.Request().Context())
	return c.JSON(http.StatusOK, session.Gate(s, path))
}
