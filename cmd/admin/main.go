package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/diagnosis/tourvisto-admin/internal/cache"
	"github.com/diagnosis/tourvisto-admin/internal/countries"
	"github.com/diagnosis/tourvisto-admin/internal/http/handlers"
	sessionmw "github.com/diagnosis/tourvisto-admin/internal/http/middleware"
	"github.com/diagnosis/tourvisto-admin/internal/http/views"
	"github.com/diagnosis/tourvisto-admin/internal/loader"
	"github.com/diagnosis/tourvisto-admin/internal/repo/postgres"
	"github.com/diagnosis/tourvisto-admin/pkg/config"
	"github.com/diagnosis/tourvisto-admin/pkg/database"
	"github.com/diagnosis/tourvisto-admin/pkg/events"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
	mw "github.com/diagnosis/tourvisto-admin/pkg/middleware"
)

func main() {
	cfg := config.Load()
	logger.Reload()

	ctx := context.Background()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	checks := map[string]mw.Check{"postgres": pool.Ping}

	// Country list cache and submission counters; the console still works
	// without Redis, it just hits the upstream every time and never throttles.
	var store interface {
		cache.Store
		sessionmw.Counter
	} = cache.NoopStore{}
	if rs, err := cache.NewRedisStore(cfg.Redis); err != nil {
		logger.Warn("Invalid Redis configuration, country cache disabled", "error", err)
	} else if err := rs.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, country cache disabled", "error", err)
		_ = rs.Close()
	} else {
		store = rs
		checks["redis"] = rs.Ping
		defer rs.Close()
	}

	// Trip generation requests go out over NATS
	var publisher events.Publisher = events.LogPublisher{}
	if cfg.NATS.Enabled {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unreachable, trip generation requests will only be logged", "error", err)
		} else {
			publisher = bus
		}
	}
	defer publisher.Close()

	// Initialize repositories
	tripRepo := postgres.NewTripRepo(pool)
	usersRepo := postgres.NewUsersRepo(pool)
	statsRepo := postgres.NewStatsRepo(pool)
	countryClient := countries.NewClient(cfg.Countries.BaseURL, cfg.Countries.Timeout, store, cfg.Countries.CacheTTL)

	l := loader.New(tripRepo, usersRepo, statsRepo, countryClient, cfg.Admin)

	renderer, err := views.New()
	if err != nil {
		logger.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}

	limiter := sessionmw.NewRateLimiter(store, sessionmw.RateLimitConfig{
		Requests: cfg.Admin.GenerateLimit,
		Window:   cfg.Admin.GenerateWindow,
		Prefix:   "trip-generate",
		KeyFunc:  sessionmw.SessionOrIPKey,
	})

	h := handlers.New(l, publisher, renderer, limiter)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := mw.NewHTTPMetrics(reg)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("admin"))
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health(checks))
	r.Use(metrics.Handler)
	// Inside metrics so a recovered panic is still counted as a 500.
	r.Use(mw.Recover)
	r.Use(sessionmw.OptionalSession(cfg.Auth.JWTSecret, cfg.Auth.SessionCookie))

	r.Mount("/", h.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down admin console...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Admin console shutdown error", "error", err)
		}
	}()

	logger.Info("Starting admin console", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Admin console error", "error", err)
		os.Exit(1)
	}
}
