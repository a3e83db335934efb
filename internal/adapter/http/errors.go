package http

import (
	"errors"
	"net/http"
	"strings"

	"incorporation-portal/internal/domain/failure"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var kindStatus = map[failure.Kind]int{
	failure.KindValidation:       http.StatusUnprocessableEntity,
	failure.KindWeakPassword:     http.StatusUnprocessableEntity,
	failure.KindUnauthenticated:  http.StatusUnauthorized,
	failure.KindWrongCredential:  http.StatusUnauthorized,
	failure.KindPermissionDenied: http.StatusForbidden,
	failure.KindNotFound:         http.StatusNotFound,
	failure.KindEmailInUse:       http.StatusConflict,
	failure.KindConflict:         http.StatusConflict,
	failure.KindTooManyRequests:  http.StatusTooManyRequests,
	failure.KindNetwork:          http.StatusGatewayTimeout,
	failure.KindUnavailable:      http.StatusServiceUnavailable,
	failure.KindUnknown:          http.StatusInternalServerError,
}

// StatusFor maps a failure kind to its HTTP status.
func StatusFor(k failure.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Failure renders err as an ErrorResponse carrying the fixed user-facing
// sentence of its kind.
func Failure(c echo.Context, err error) error {
	k := failure.KindOf(err)
	return c.JSON(StatusFor(k), ErrorResponse{Error: failure.Message(k), Code: string(k)})
}

// ErrorHandler is the echo HTTPErrorHandler. Failures are logged once here,
// server-side kinds at error level and client-side kinds at debug.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				msg = m
			}
			_ = c.JSON(he.Code, ErrorResponse{Error: msg, Code: strings.ToLower(strings.ReplaceAll(http.StatusText(he.Code), " ", "-"))})
			return
		}

		k := failure.KindOf(err)
		fields := []zap.Field{
			zap.String("kind", string(k)),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		if StatusFor(k) >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}
		_ = Failure(c, err)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
