package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/messaging"
	"github.com/multillm/survey-stack/common/middleware"
	"github.com/multillm/survey-stack/common/postgrest"
	"github.com/multillm/survey-stack/submissions/internal/config"
	"github.com/multillm/survey-stack/submissions/internal/handlers"
	"github.com/multillm/survey-stack/submissions/internal/ratelimit"
	"github.com/multillm/survey-stack/submissions/internal/server"
	"github.com/multillm/survey-stack/submissions/internal/service"
	"github.com/multillm/survey-stack/submissions/internal/store"

	natsclient "github.com/multillm/survey-stack/common/messaging/nats"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before configuration")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load env file %s: %v", *envFile, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("submissions"))
	logging.SetDefault(logger)

	slog.Info("Starting Submissions service",
		slog.Int("port", cfg.Server.Port),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("log_level", cfg.Logging.Level),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Open the record store. Missing credentials are not fatal: the
	// endpoints report the configuration error on every request.
	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Open(openCtx, store.Options{
		Backend:  cfg.Storage.Backend,
		FilePath: cfg.Storage.File.Path,
		PostgREST: postgrest.Config{
			URL:     cfg.Storage.PostgREST.URL,
			Key:     cfg.Storage.PostgREST.Key,
			Table:   cfg.Storage.PostgREST.Table,
			Timeout: cfg.Storage.PostgREST.Timeout,
		},
		PostgresDSN:   cfg.Storage.Postgres.DSN,
		MigrationsURL: cfg.Storage.Postgres.MigrationsPath,
		AutoMigrate:   cfg.Storage.Postgres.AutoMigrate,
	})
	openCancel()
	var configErr error
	switch {
	case errors.Is(err, store.ErrConfigurationMissing):
		slog.Warn("Storage backend not configured; submissions will be rejected",
			logging.Backend(cfg.Storage.Backend),
			logging.Error(err),
		)
		configErr = err
	case err != nil:
		log.Fatalf("Failed to open storage backend: %v", err)
	default:
		slog.Info("Storage backend ready", logging.Backend(st.Name()))
		defer st.Close()
	}

	// Initialize rate limiter
	var rateLimiter ratelimit.RateLimiter = ratelimit.NoOpRateLimiter{}
	if cfg.Redis.Enabled && cfg.Ingest.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisRateLimiter(cfg.Redis.URL, cfg.Ingest.RateLimitRequests, cfg.Ingest.RateLimitWindow)
		if err != nil {
			slog.Warn("Failed to initialize Redis rate limiter, continuing without rate limiting", logging.Error(err))
		} else {
			rateLimiter = limiter
			slog.Info("Rate limiting enabled",
				slog.Int("requests", cfg.Ingest.RateLimitRequests),
				slog.Duration("window", cfg.Ingest.RateLimitWindow),
			)
		}
	} else if cfg.Ingest.RateLimitEnabled {
		slog.Warn("Rate limiting requested but Redis is disabled")
	}
	defer rateLimiter.Close()

	// Initialize event publisher
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		if cfg.NATS.Name != "" {
			natsCfg.Name = cfg.NATS.Name
		}
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			slog.Warn("Failed to connect to NATS, submission events disabled", logging.Error(err))
		} else {
			publisher = client
			slog.Info("Publishing submission events",
				slog.String("nats_url", cfg.NATS.URL),
				slog.String("subject", messaging.SubjectSubmissionsCreated),
			)
		}
	}
	defer publisher.Close()

	svc := service.NewSubmissionService(st, publisher, logger)
	svc.SetConfigError(configErr)

	// Initialize HTTP handlers
	handler := handlers.NewSubmissionsHandler(svc, rateLimiter, cfg.Ingest.MaxBodyBytes, logger)
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.CORS.AllowedOrigins
	}
	router := server.NewRouter(handler, cors)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Submissions service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", logging.Error(err))
	}

	slog.Info("Server stopped")
}
