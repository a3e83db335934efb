package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httpadp "incorporation-portal/internal/adapter/http"
	repo "incorporation-portal/internal/adapter/repository/mysql"
	"incorporation-portal/internal/adapter/router"
	"incorporation-portal/internal/config"
	"incorporation-portal/internal/infrastructure/cache"
	"incorporation-portal/internal/infrastructure/db"
	"incorporation-portal/internal/infrastructure/logger"
	"incorporation-portal/internal/infrastructure/metrics"
	"incorporation-portal/internal/infrastructure/token"
	"incorporation-portal/internal/usecase/application"
	"incorporation-portal/internal/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	rdb, err := cache.OpenRedis(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	users := repo.NewUserRepository(gdb)
	authUC := auth.NewUsecase(users, cache.NewSessionStore(rdb), token.NewSigner(cfg.JWTSecret), cfg.SessionTTL(), m)
	appUC := application.NewUsecase(
		repo.NewApplicationRepository(gdb),
		repo.NewHistoryRepository(gdb),
		users,
		repo.NewGormUoW(gdb),
		m,
	)

	if cfg.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info("admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	e := router.New(router.Deps{
		Log:            log,
		Auth:           authUC,
		Applications:   appUC,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		LoginLimiter:   cache.NewRateLimiter(rdb, "portal:ratelimit:login:", cfg.LoginRateLimit, cfg.LoginRateWindow()),
		Gatherer:       reg,
		HealthChecks: map[string]httpadp.Check{
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		TrustedProxies: proxies,
	})

	addr := ":" + cfg.AppPort
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
