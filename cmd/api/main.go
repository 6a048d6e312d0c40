package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/project-roulette/engine/internal/api"
	"github.com/project-roulette/engine/internal/api/handlers"
	"github.com/project-roulette/engine/internal/completion"
	"github.com/project-roulette/engine/internal/metrics"
	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	"github.com/project-roulette/engine/internal/services"
	"github.com/project-roulette/engine/pkg/config"
	"github.com/project-roulette/engine/pkg/database"
	"github.com/project-roulette/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting Project Roulette engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("store", cfg.StoreBackend),
		zap.String("model", cfg.CompletionModel),
	)

	m := metrics.NewMetrics()

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open idea store", zap.Error(err))
	}
	defer closeStore()

	repo := repository.NewIdeaRepository(store,
		repository.WithKey(cfg.StoreKey),
		repository.WithLimit(cfg.StoreLimit),
		repository.WithLogger(log.Named("ideas")),
		repository.WithMetrics(m),
	)

	client, err := completion.NewClient(completion.Config{
		APIKey:      cfg.CompletionAPIKey,
		Model:       cfg.CompletionModel,
		Endpoint:    cfg.CompletionEndpoint,
		Temperature: cfg.CompletionTemperature,
		MaxTokens:   cfg.CompletionMaxTokens,
		Metrics:     m,
	})
	if err != nil {
		log.Fatal("Invalid completion settings", zap.Error(err))
	}

	ideas := services.NewIdeaService(client, repo, m)

	if cfg.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, export and clear are unauthenticated")
	}

	router := api.NewRouter(api.Dependencies{
		AdminSecret:    []byte(cfg.AdminJWTSecret),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
		Metrics:        m,
		Store:          store,
		IdeasHandler:   handlers.NewIdeasHandler(ideas, services.NewFormRegistry(), services.NewFeedLoader(ideas, log.Named("feed"))),
		OptionsHandler: handlers.NewOptionsHandler(models.DefaultCatalog()),
	})

	// Create HTTP server. Generation waits on the upstream model, so writes
	// get more room than reads.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}

type kvBackend interface {
	repository.KVStore
	repository.Pinger
}

// openStore builds the configured backend and a func that releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (kvBackend, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return repository.NewMemoryStore(cfg.StoreQuotaBytes), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("Redis connected", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisStore(client, ""), func() { _ = client.Close() }, nil

	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, cfg.AppEnv, log.Named("gorm"))
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database connected successfully")
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormStore(db), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
