package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"quadramall/apienvelope/internal/api"
	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/config"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/internal/middleware"
	"quadramall/apienvelope/pkg/envelope"
)

// RegisterRoutes builds the router. Every response it produces, including
// unknown routes, wrong methods, throttling and panics, is an envelope.
func RegisterRoutes(deps *api.Dependencies, cfg *config.Config, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logging)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	// Inside metrics so panicking requests are still counted as 500s.
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, r, envelope.EndpointNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, r, envelope.MethodNotAllowed(r.Method))
	})

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Health, upSince))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	RegisterAPIRoutes(r, deps, limiter)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
