package internal

import (
	"net/http"
	"steamdash/internal/controllers"
	"steamdash/internal/providers"
	"steamdash/internal/structures"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(
	dashboardController *controllers.DashboardController,
	settingsController *controllers.SettingsController,
	healthController *controllers.HealthController,
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	origins := conf.Cors.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	routers.Use(
		providers.RequestIDMiddleware,
		providers.LoggingMiddleware(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
		providers.MetricsMiddleware(metrics),
	)

	routers.Get("/health", http.HandlerFunc(healthController.Health))
	if conf.Metrics.Enabled {
		routers.Get("/metrics", promhttp.Handler())
	}

	routers.Get("/api/profile", http.HandlerFunc(dashboardController.GetProfile))
	routers.Get("/api/games", http.HandlerFunc(dashboardController.GetGames))
	routers.Get("/api/status", http.HandlerFunc(dashboardController.GetStatus))
	routers.Post("/api/refresh", http.HandlerFunc(dashboardController.Refresh))
	routers.Get("/api/settings", http.HandlerFunc(settingsController.GetSettings))
	routers.Put("/api/settings", http.HandlerFunc(settingsController.PutSettings))
	return routers
}
