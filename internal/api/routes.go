package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Dashboard - all data in one call
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/kpis", h.GetKPIs)

		// Market structure
		r.Get("/districts", h.GetDistricts)
		r.Get("/districts/{district}", h.GetDistrict)
		r.Get("/clusters", h.GetClusters)

		// Operational insights
		r.Route("/insights", func(r chi.Router) {
			r.Get("/photo-bins", h.GetPhotoBins)
			r.Get("/min-nights", h.GetMinNightsBins)
			r.Get("/host-drivers", h.GetHostDrivers)
		})

		r.Get("/map/sample", h.GetMapSample)
		r.Get("/benchmark", h.GetBenchmark)

		// Host diagnosis
		r.Route("/diagnosis", func(r chi.Router) {
			r.Post("/", h.RunDiagnosis)
			r.Post("/simulate", h.RunSimulation)
			r.Get("/recent", h.GetRecentDiagnoses)
			r.Get("/{id}", h.GetDiagnosis)
		})
	})

	return r
}
