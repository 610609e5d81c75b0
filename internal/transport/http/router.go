package http

import (
	"net/http"
	"time"

	"dsa-tracker/internal/app"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig collects what the router needs.
type RouterConfig struct {
	Service        *app.TrackerService
	Auth           *Authenticator
	Logger         *zap.Logger
	Metrics        *Metrics
	Location       *time.Location
	AllowedOrigins []string
}

// NewRouter wires the REST API, the websocket feed, health and metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := NewHandler(cfg.Service, logger, cfg.Location)
	ws := NewWSHandler(cfg.Service, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(metrics.middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Auth.Middleware)

		r.Get("/topics", h.Topics)
		r.Get("/activity/heatmap", h.Heatmap)
		r.Get("/ws", ws.ServeWS)

		r.Route("/{scope}", func(r chi.Router) {
			r.Post("/topics", h.withScope(h.RegisterTopic))
			r.Route("/questions", func(r chi.Router) {
				r.Get("/", h.withScope(h.ListQuestions))
				r.Post("/", h.withScope(h.CreateQuestion))
				r.Get("/by-slug/{slug}", h.withScope(h.FindBySlug))
				r.Get("/{id}", h.withScope(h.GetQuestion))
				r.Put("/{id}", h.withScope(h.UpdateQuestion))
				r.Delete("/{id}", h.withScope(h.DeleteQuestion))
				r.Post("/{id}/revise", h.withScope(h.MarkRevised))
			})
		})
	})
	return r
}
