package commands

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/castwave/castwave/internal/api"
	"github.com/castwave/castwave/internal/cache"
	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/database"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/queue"
)

// serveCmd runs the API server in-process. It is a development
// convenience; deployments run cmd/api and cmd/worker separately.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the castwave HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()

		var db *pgxpool.Pool
		var hist *history.Service
		if cfg.Database.URL != "" {
			if db, err = database.Connect(ctx, cfg.Database); err != nil {
				slog.Warn("database unavailable, running without run history", "error", err)
				db = nil
			} else {
				defer db.Close()
				hist = history.NewService(db)
			}
		}

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
			return err
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
			IdleTimeout: 120 * time.Second,
		}

		slog.Info("starting API server", "addr", cfg.Addr(), "tts_backend", cfg.TTS.Backend)
		return srv.ListenAndServe()
	},
}
