package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/api"
	"github.com/vaarthai/vithai/internal/config"
	"github.com/vaarthai/vithai/internal/crypto"
	"github.com/vaarthai/vithai/internal/handlers"
	"github.com/vaarthai/vithai/internal/provider"
	"github.com/vaarthai/vithai/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("catalog store failed")
	}
	defer backend.Close()
	logger.Info().Str("backend", backend.Name()).Msg("catalog store ready")

	opts := handlers.Options{
		Catalog: store.NewCatalog(backend, logger),
		Logger:  logger,
	}

	// Verse cache is optional
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		opts.Cache = redisStore
		logger.Info().Msg("connected to Redis")
	}

	var completer provider.Completer
	if cfg.ProviderEnabled() {
		completer = provider.NewOpenAICompleter(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		logger.Info().Str("model", cfg.AIModel).Msg("verse and search provider enabled")
	} else {
		logger.Warn().Msg("AI_API_KEY not set; using fixed verse and local search")
	}
	opts.Provider = provider.New(completer, logger)

	opts.Passwords, err = crypto.NewPasswordChecker(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		logger.Fatal().Err(err).Msg("admin password")
	}
	opts.Tokens = crypto.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Create router
	router := api.NewRouter(logger, api.Config{
		Handlers:       opts,
		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // provider calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting vithai server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case "file":
		return store.NewFileBackend(ctx, cfg.DataFile)
	case "sqlite":
		return store.NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
