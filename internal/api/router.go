package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/castwave/castwave/internal/api/handlers"
	"github.com/castwave/castwave/internal/api/middleware"
	"github.com/castwave/castwave/internal/auth"
	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/queue"
	"github.com/castwave/castwave/internal/store"
	"github.com/castwave/castwave/internal/voice"
)

// Deps carries the services the router exposes. The database pool, redis
// client, queue client, and history service may be nil; the endpoints
// backed by them degrade per-handler.
type Deps struct {
	Config     *config.Config
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Generation *generation.Service
	Queue      *queue.Client
	Progress   progress.Store
	History    *history.Service
}

type Router struct {
	mux  *chi.Mux
	deps Deps
	jwt  *auth.JWTMiddleware
}

func NewRouter(deps Deps) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		deps: deps,
		jwt:  auth.NewJWTMiddleware(deps.Config.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.deps.Config.Server.CORSOrigins))

	// Generation requests are heavyweight; keep the bucket small.
	rl := middleware.NewRateLimiter(10, 20)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.deps.DB, rt.deps.Redis)
	r.Get("/health", health.Healthz)
	r.Get("/readyz", health.Readyz)

	outputs := store.New(rt.deps.Config.Paths.OutputsDir)
	library := voice.NewLibrary(rt.deps.Config.Paths.VoicesDir)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		dialogueH := handlers.NewDialogueHandler(rt.deps.Generation, rt.deps.Queue, rt.deps.Progress, rt.deps.History)
		r.Route("/dialogues", func(r chi.Router) {
			r.Post("/generate", dialogueH.Generate)
			r.Post("/", dialogueH.Enqueue)
			r.Get("/", dialogueH.List)
			r.Get("/summary", dialogueH.Summary)
			r.Get("/{id}", dialogueH.Get)
			r.Get("/{id}/events", dialogueH.Events)
		})

		downloadH := handlers.NewDownloadHandler(outputs)
		r.Get("/download", downloadH.Download)

		voicesH := handlers.NewVoicesHandler(library)
		r.Get("/voices", voicesH.List)
	})

	return r
}
