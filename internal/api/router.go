package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/api/middleware"
	"github.com/vaarthai/vithai/internal/handlers"
)

const maxBodyBytes = 256 * 1024

// Config wires the router.
type Config struct {
	Handlers       handlers.Options
	StaticDir      string
	CORSOrigins    []string
	LoginRateLimit int // attempts per minute per IP
}

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", "Content-Language"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(cfg.Handlers)
	auth := middleware.NewAuthMiddleware(cfg.Handlers.Tokens, logger)
	limiter := middleware.NewLoginLimiter(cfg.LoginRateLimit, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(maxBodyBytes))
		r.Use(middleware.RequireJSON)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.Error(w, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			h.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		})

		// Public routes
		r.Get("/", h.Root)
		r.Get("/messages", h.ListMessages)
		r.Get("/messages/{id}", h.GetMessage)
		r.Get("/verse", h.Verse)
		r.Post("/search", h.Search)
		r.Get("/strings", h.Strings)
		r.Get("/stats", h.Stats)
		r.With(limiter.Middleware).Post("/login", h.Login)

		// Admin routes (require bearer token)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/messages", h.CreateMessage)
			r.Put("/messages/{id}", h.UpdateMessage)
			r.Delete("/messages/{id}", h.DeleteMessage)
		})
	})

	// Single-page app; deep links such as /message/{id} get index.html.
	r.Get("/*", newSPAHandler(cfg.StaticDir).ServeHTTP)

	return r
}
