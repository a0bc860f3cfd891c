package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/discussion-engine-api/internal/api"
	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/service"
	"github.com/discussion-engine-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{Level: "info"})
	log.Info().Msg("Starting Discussion Engine API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Banned word source: Redis mirror when configured, the database otherwise
	words, err := service.NewWordStack(repos, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure Redis")
	}
	defer words.Close()

	// Initialize services
	services := service.NewServices(repos, words.Filter, cfg, log, words.Options()...)

	if words.Mirror != nil {
		syncCtx, cancel := context.WithTimeout(auth.AsSystem(context.Background()), 10*time.Second)
		n, err := services.BannedWords.SyncMirror(syncCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to sync banned word mirror")
		}
		log.Info().Int("words", n).Msg("Banned word mirror synced")
	}

	// Backfill legacy comments in the background
	if cfg.Discussion.MigrateLegacyOnStart {
		services.Migration.StartBackfill(context.Background())
		log.Info().Msg("Legacy comment backfill started")
	}

	// Initialize router
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	router := api.NewRouter(services, verifier, db, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop background backfill
	services.Migration.StopBackfill()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	stats := db.Stats()
	log.Info().
		Int("open_connections", stats.OpenConnections).
		Int64("wait_count", stats.WaitCount).
		Msg("Server exited gracefully")
}
