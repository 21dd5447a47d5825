package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"briefly-backend/internal/handlers"
	"briefly-backend/internal/middleware"
	"briefly-backend/internal/websocket"
)

// Deps collects what the router mounts. RunHandler and JobHandler are nil when
// their backing store is not configured; their routes then answer 503.
type Deps struct {
	Sessions       *middleware.Sessions
	DistillHandler *handlers.DistillHandler
	RunHandler     *handlers.RunHandler
	JobHandler     *handlers.JobHandler
	SystemHandler  *handlers.SystemHandler
	WSHub          *websocket.Hub
	FrontendURL    string
	Logger         *zap.Logger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.FrontendURL))

	// 30 runs per minute per session
	runLimiter := middleware.NewRateLimiter(30, time.Minute)
	singleRun := middleware.NewSingleRun()

	r.Get("/health", d.SystemHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// The websocket resolves its own session from query params.
		r.Get("/ws", d.WSHub.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(d.Sessions.Middleware)

			r.Post("/classify", d.DistillHandler.Classify)
			r.Post("/voice", d.SystemHandler.Voice)
			r.Delete("/cache", d.SystemHandler.ClearCache)

			// ──── Distill Routes ────
			r.Route("/distill", func(r chi.Router) {
				r.Use(runLimiter.Middleware)

				r.Group(func(r chi.Router) {
					r.Use(singleRun.Middleware)
					r.Post("/", d.DistillHandler.Distill)
					r.Post("/upload", d.DistillHandler.Upload)
					r.Post("/youtube", d.DistillHandler.YouTube)
				})

				if d.JobHandler != nil {
					r.Post("/async", d.JobHandler.Enqueue)
				} else {
					r.Post("/async", handlers.AsyncDisabled)
				}
			})

			// ──── Job Routes ────
			r.Route("/jobs", func(r chi.Router) {
				if d.JobHandler != nil {
					r.Get("/{id}", d.JobHandler.GetJob)
				} else {
					r.Get("/{id}", handlers.AsyncDisabled)
				}
			})

			// ──── Run History Routes ────
			r.Route("/runs", func(r chi.Router) {
				if d.RunHandler == nil {
					r.Get("/", handlers.HistoryDisabled)
					r.Get("/{id}", handlers.HistoryDisabled)
					r.Get("/{id}/export", handlers.HistoryDisabled)
					return
				}
				r.Get("/", d.RunHandler.List)
				r.Get("/{id}", d.RunHandler.Get)
				r.Get("/{id}/export", d.RunHandler.Export)
			})
		})
	})

	return r
}
