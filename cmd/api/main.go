package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/castwave/castwave/internal/api"
	"github.com/castwave/castwave/internal/cache"
	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/database"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/queue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database is optional: without it runs simply are not recorded.
	var db *pgxpool.Pool
	var hist *history.Service
	if cfg.Database.URL != "" {
		db, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, running without run history", "error", err)
			db = nil
		} else {
			defer db.Close()
			if err := database.Migrate(ctx, db, cfg.Database.MigrationsPath); err != nil {
				slog.Warn("migrations failed", "error", err)
			}
			hist = history.NewService(db)
		}
	}

	// Redis is optional: without it progress stays in process memory and
	// async generation is disabled.
	var rdb *redis.Client
	var queueClient *queue.Client
	var progressStore progress.Store = progress.NewMemoryStore()
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without async generation", "error", err)
		rc.Close()
	} else {
		rdb = rc
		defer rdb.Close()
		progressStore = progress.NewRedisStore(cache.NewCache(rdb))
		queueClient = queue.NewClient(cfg.Redis)
		defer queueClient.Close()
	}

	gen, err := generation.NewFromConfig(cfg, progressStore, hist, logger)
	if err != nil {
		slog.Error("failed to build generation service", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Generation: gen,
		Queue:      queueClient,
		Progress:   progressStore,
		History:    hist,
	})

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router.Setup(),
		ReadTimeout: 15 * time.Second,
		// No write deadline: synchronous generation and the SSE progress
		// stream both outlive any sensible fixed timeout.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "tts_backend", cfg.TTS.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
