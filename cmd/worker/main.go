package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/castwave/castwave/internal/cache"
	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/database"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/queue"
	"github.com/castwave/castwave/internal/queue/workers"

	"github.com/redis/go-redis/v9"
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

	// The worker shares progress through redis so the API process can
	// stream it.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	progressStore := progress.NewRedisStore(cache.NewCache(rdb))

	// Database is optional: without it runs simply are not recorded.
	var hist *history.Service
	if cfg.Database.URL != "" {
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, running without run history", "error", err)
		} else {
			defer db.Close()
			hist = history.NewService(db)
		}
	}

	gen, err := generation.NewFromConfig(cfg, progressStore, hist, logger)
	if err != nil {
		slog.Error("failed to build generation service", "error", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One model instance serves one synthesis at a time.
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	dialogueWorker := workers.NewDialogueWorker(gen)
	registry.Register(queue.TypeDialogueGenerate, asynq.HandlerFunc(dialogueWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", cfg.Worker.Concurrency, "tts_backend", cfg.TTS.Backend)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
