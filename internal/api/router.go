// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// SetupDataRouter serves sensor reading ingestion for field devices.
func SetupDataRouter(apiHandler *APIHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(apiHandler.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", apiHandler.HandleHealth)
	r.With(apiHandler.auth.Middleware).Post("/api/sensors/{id}/readings", apiHandler.HandleReadingIngest)

	return r
}

// SetupUIRouter serves the dashboard API, the websocket feed and metrics.
func SetupUIRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(apiHandler.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", apiHandler.HandleHealth)
	r.Get("/ws", apiHandler.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", apiHandler.HandleLogin)
		r.Get("/auth/wallet/{wallet}/message", apiHandler.HandleWalletMessage)

		r.Group(func(r chi.Router) {
			r.Use(apiHandler.auth.Middleware)

			r.Route("/infrastructure", func(r chi.Router) {
				r.Get("/", apiHandler.ListInfrastructure)
				r.Post("/", apiHandler.CreateInfrastructure)
				r.Get("/{id}", apiHandler.GetInfrastructure)
				r.Patch("/{id}/status", apiHandler.UpdateInfrastructureStatus)
			})

			r.Route("/sensors", func(r chi.Router) {
				r.Get("/", apiHandler.ListSensors)
				r.Post("/", apiHandler.CreateSensor)
				r.Get("/{id}", apiHandler.GetSensor)
				r.Patch("/{id}/status", apiHandler.UpdateSensorStatus)
				r.Post("/{id}/readings", apiHandler.HandleReadingIngest)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", apiHandler.ListAlerts)
				r.Get("/{id}", apiHandler.GetAlert)
				r.Patch("/{id}/status", apiHandler.UpdateAlertStatus)
			})

			r.Route("/simulation", func(r chi.Router) {
				r.Get("/", apiHandler.ListSimulations)
				r.Post("/start", apiHandler.StartSimulation)
				r.Get("/{id}", apiHandler.GetSimulation)
				r.Post("/{id}/stop", apiHandler.StopSimulation)
				r.Post("/{id}/anomaly", apiHandler.InjectAnomaly)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{apiHandler.cfg.Server.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-API-Key", "X-Wallet-Address", "X-Wallet-Signature"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
