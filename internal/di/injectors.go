//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"steamdash/internal"
	"steamdash/internal/controllers"
	"steamdash/internal/providers"
	"steamdash/internal/scheduler"
	"steamdash/internal/services"
	"steamdash/internal/steam"
	"steamdash/internal/storage"
	storageInterfaces "steamdash/internal/storage/interfaces"
	"steamdash/internal/structures"
	"steamdash/internal/views"
)

var viewSet = wire.NewSet(
	views.NewDashboard,
	wire.Bind(new(services.Renderer), new(*views.Dashboard)),
	wire.Bind(new(services.Notifier), new(*views.Dashboard)),
	wire.Bind(new(services.BusyIndicator), new(*views.Dashboard)),
	wire.Bind(new(services.CredentialPrompter), new(*views.Dashboard)),
	wire.Bind(new(controllers.DashboardViewInterface), new(*views.Dashboard)),
)

var steamSet = wire.NewSet(
	steam.NewTransport,
	steam.NewPublicSource,
	steam.NewAPISource,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewSettingsStore,
		wire.Bind(new(services.SettingsReader), new(storageInterfaces.SettingsStoreInterface)),

		steamSet,
		viewSet,
		services.NewEnrichmentService,
		services.NewDashboardService,
		wire.Bind(new(services.DashboardServiceInterface), new(*services.DashboardService)),
		scheduler.NewScheduler,
		controllers.NewDashboardController,
		controllers.NewSettingsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
