package routes

import (
	"github.com/go-chi/chi/v5"

	"quadramall/apienvelope/internal/api"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, limiter *middleware.RateLimiter) {
	products := deps.Services.Products

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "/api/v1"))
		v1.Use(limiter.Middleware)

		// Public
		v1.Get("/products", api.ListProductsHandler(products))
		v1.Get("/products/stats", api.ProductStatsHandler(products))
		v1.Get("/products/{id}", api.GetProductHandler(products))

		// Authenticated
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens))

			authed.Post("/products/{id}/reserve", api.ReserveStockHandler(products))

			// Seller or admin
			authed.Group(func(seller chi.Router) {
				seller.Use(middleware.RequireRole(constants.RoleSeller, constants.RoleAdmin))
				seller.Post("/products", api.CreateProductHandler(products))
				seller.Put("/products/{id}", api.UpdateProductHandler(products))
			})

			// Admin only
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireRole(constants.RoleAdmin))
				admin.Delete("/products/{id}", api.DeleteProductHandler(products))
			})
		})
	})
}
