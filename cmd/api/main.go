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

	"github.com/villa-claudia/docs-portal/internal/auth"
	"github.com/villa-claudia/docs-portal/internal/booking"
	"github.com/villa-claudia/docs-portal/internal/http/handlers"
	"github.com/villa-claudia/docs-portal/internal/mailer"
	"github.com/villa-claudia/docs-portal/internal/repository"
	"github.com/villa-claudia/docs-portal/internal/scheduler"
	"github.com/villa-claudia/docs-portal/internal/upload"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/database"
	"github.com/villa-claudia/docs-portal/pkg/events"
	"github.com/villa-claudia/docs-portal/pkg/logger"
	"github.com/villa-claudia/docs-portal/pkg/metrics"
	mw "github.com/villa-claudia/docs-portal/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	metrics.Register()

	ctx := context.Background()

	// Postgres backs the reminder log only; documents are never stored.
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	reminderLog := repository.NewReminderLogRepository(pool)

	var rateLimits repository.RateLimitRepository
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid REDIS_URL, magic-link rate limiting disabled", "error", err)
	} else {
		rateLimits = repository.NewRedisRateLimitRepository(redis.NewClient(opts))
	}

	var bus events.Publisher
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	} else {
		bus = events.NewNoopBus()
	}
	defer bus.Close()

	mail := mailer.FromConfig(cfg.Email)
	bookings := booking.NewClient(cfg.WordPress)

	uploads := upload.NewService(mail, bus, cfg.Admin.Email, cfg.Upload)
	sched := scheduler.NewService(bookings, mail, reminderLog, bus, cfg.Server.BaseURL, cfg.Scheduler)
	magicLinks := auth.NewMagicLinkService(mail, bus, cfg.Server.BaseURL, cfg.Auth)

	h := handlers.New(uploads, sched, magicLinks, bookings, reminderLog, rateLimits, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("docs-portal"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/v1", h.Routes())

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

		logger.Info("Shutting down docs portal...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting docs portal", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
