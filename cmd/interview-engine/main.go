package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swipehire/interview-engine/internal/ai"
	"github.com/swipehire/interview-engine/internal/api"
	"github.com/swipehire/interview-engine/internal/cleanup"
	"github.com/swipehire/interview-engine/internal/config"
	"github.com/swipehire/interview-engine/internal/gate"
	"github.com/swipehire/interview-engine/internal/interview"
	"github.com/swipehire/interview-engine/internal/roles"
	"github.com/swipehire/interview-engine/internal/storage"
	"github.com/swipehire/interview-engine/internal/store"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting interview-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize roster repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		slog.Error("failed to create roster repository", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected successfully")

	// Initialize session store and gate
	sessionStore, err := store.NewRedisStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.StoreTTL)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}

	sessionGate, err := gate.NewRedisGate(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.GateTTL)
	if err != nil {
		slog.Error("failed to create session gate", "error", err)
		os.Exit(1)
	}

	// Load role profiles
	roleLoader := roles.NewLoader()
	if err := roleLoader.LoadFromDir(cfg.Roles.Dir); err != nil {
		slog.Warn("failed to load roles from dir", "dir", cfg.Roles.Dir, "error", err)
	}

	// Initialize AI service (question generation, grading, extraction)
	aiSvc, err := ai.NewService(initCtx, ai.Config{
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		MaxResumeChars: cfg.Gemini.MaxResumeChars,
	}, roleLoader)
	if err != nil {
		slog.Error("failed to create ai service", "error", err)
		os.Exit(1)
	}

	// Initialize interview engine
	engine := interview.NewEngine(sessionStore, sessionGate, aiSvc, aiSvc, repo)

	// Initialize cleanup worker
	cleaner := cleanup.NewCleaner(engine, cfg.Cleanup.Interval, cfg.Cleanup.MaxAge)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleaner.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, engine, aiSvc, roleLoader, repo, sessionGate)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Close external connections
	if err := sessionStore.Close(); err != nil {
		slog.Error("session store close error", "error", err)
	}
	if err := sessionGate.Close(); err != nil {
		slog.Error("session gate close error", "error", err)
	}
	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("interview-engine stopped")
}
