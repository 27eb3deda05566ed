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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/trailmark/experiences-api/internal/http/handlers"
	httpmw "github.com/trailmark/experiences-api/internal/http/middleware"
	"github.com/trailmark/experiences-api/internal/repository"
	"github.com/trailmark/experiences-api/internal/service"
	"github.com/trailmark/experiences-api/pkg/config"
	"github.com/trailmark/experiences-api/pkg/database"
	"github.com/trailmark/experiences-api/pkg/events"
	"github.com/trailmark/experiences-api/pkg/logger"
	mw "github.com/trailmark/experiences-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var eventBus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsBus.Close()
		eventBus = natsBus
	} else {
		logger.Warn("NATS_URL not set, events disabled")
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	expRepo := repository.NewExperienceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, eventBus, cfg.Auth)
	catalogService := service.NewCatalogService(expRepo, eventBus)
	bookingService := service.NewBookingService(bookingRepo, expRepo, eventBus)

	// HTTP layer
	h := handlers.New(authService, catalogService, bookingService)
	authn := httpmw.NewAuthenticator(authService, expRepo)
	var limiter *httpmw.RateLimiter
	if rdb != nil {
		limiter = httpmw.NewRateLimiter(rdb, cfg.RateLimit)
	}

	mw.RegisterMetrics()

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Metrics)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", handlers.Routes(h, authn, limiter))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting experiences API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
