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
	"golang.org/x/sync/errgroup"

	"greenleaf/internal/admin"
	"greenleaf/internal/application"
	"greenleaf/internal/platform/config"
	"greenleaf/internal/platform/database"
	"greenleaf/internal/platform/health"
	"greenleaf/internal/platform/logger"
	"greenleaf/internal/platform/metrics"
	"greenleaf/internal/platform/tracer"
	"greenleaf/internal/ratelimit"
	"greenleaf/internal/ratelimit/cleanup"
	httptransport "greenleaf/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing greenleaf",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"memory_stores", cfg.DatabaseURL == "",
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck // best-effort cleanup on exit

	appStore, instanceStore, err := buildStores(pool, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	tr := tracer.NewOTel()

	counterStore := ratelimit.NewMemoryStore()
	limiter := ratelimit.NewService(counterStore, ratelimit.DefaultRules(), log, m)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Config: httptransport.Config{
			TrustedProxies:   cfg.TrustedProxies,
			SecureCookies:    cfg.SecureCookies,
			SessionCookieAge: cfg.SessionCookieAge,
			RequestTimeout:   cfg.RequestTimeout,
		},
		Logger:       log,
		Applications: application.NewService(appStore, log, m, tr),
		Admins:       admin.NewService(instanceStore, log, m, tr, cfg.LoginLatencyFloor),
		Limiter:      limiter,
		Health:       healthHandler,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper := cleanup.New(limiter,
		cleanup.WithLogger(log),
		cleanup.WithMetrics(m),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := sweeper.Start(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// buildStores selects persistence per configuration: PostgreSQL when a
// DATABASE_URL is present, in-memory otherwise.
func buildStores(pool *database.Pool, cfg config.Server) (application.Store, admin.Store, error) {
	if pool == nil {
		return application.NewMemoryStore(), admin.NewMemoryStore(), nil
	}

	appStore, err := application.NewPostgres(pool.DB(), cfg.ApplicationsTable)
	if err != nil {
		return nil, nil, err
	}
	instanceStore, err := admin.NewPostgres(pool.DB(), cfg.InstancesTable)
	if err != nil {
		return nil, nil, err
	}
	return appStore, instanceStore, nil
}
