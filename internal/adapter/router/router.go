package router

import (
	"net"
	"time"

	httpadapter "incorporation-portal/internal/adapter/http"
	"incorporation-portal/internal/adapter/middleware"
	"incorporation-portal/internal/domain/user"
	"incorporation-portal/internal/usecase/application"
	"incorporation-portal/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	Log            *zap.Logger
	Auth           *auth.Usecase
	Applications   *application.Usecase
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	LoginLimiter   middleware.Limiter
	Gatherer       prometheus.Gatherer
	HealthChecks   map[string]httpadapter.Check
	// TrustedProxies may set X-Forwarded-For. With none, the TCP peer is the
	// client address and forwarding headers are ignored.
	TrustedProxies []*net.IPNet
}

// New builds the echo instance with every API route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(d.TrustedProxies)
	e.Validator = httpadapter.NewValidator()
	e.HTTPErrorHandler = httpadapter.ErrorHandler(d.Log)
	e.Use(echomw.Recover(), middleware.RequestLogger(d.Log))

	h := httpadapter.NewHandler(d.HealthChecks)
	ah := httpadapter.NewAuthHandler(d.Auth)
	apph := httpadapter.NewApplicationHandler(d.Applications)

	requireAuth := middleware.RequireAuth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	admin := middleware.RequireRole(user.RoleAdmin)
	idem := middleware.Idempotency(d.Redis, d.IdempotencyTTL, d.Log)

	e.GET("/health", h.Health)
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")

	authg := api.Group("/auth")
	authg.POST("/register", ah.Register)
	if d.LoginLimiter != nil {
		authg.POST("/login", ah.Login, middleware.RateLimit(d.LoginLimiter, d.Log))
	} else {
		authg.POST("/login", ah.Login)
	}
	authg.POST("/logout", ah.Logout)
	authg.GET("/me", ah.Me, requireAuth)

	api.GET("/routes/access", h.RouteAccess, optionalAuth)

	apps := api.Group("/applications")
	apps.POST("", apph.Submit, optionalAuth, idem)
	apps.GET("/mine", apph.ListMine, requireAuth)
	apps.GET("", apph.List, requireAuth, admin)
	apps.GET("/:id", apph.Get, requireAuth)
	apps.GET("/:id/history", apph.History, requireAuth)
	apps.PATCH("/:id/status", apph.UpdateStatus, requireAuth, admin, idem)
	apps.DELETE("/:id", apph.Delete, requireAuth, admin, idem)

	adm := api.Group("/admin", requireAuth, admin)
	adm.GET("/stats", apph.Stats)
	adm.GET("/users", ah.ListUsers)

	return e
}

func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
