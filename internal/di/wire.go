//go:build wireinject
// +build wireinject

package di

import (
	"StockForecast/pkg/config"
	"StockForecast/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvidePrometheusRegistry,
	ProvideMetrics,

	// Data access
	ProvideCache,
	ProvidePriceSource,

	// Forecasting
	ProvideRegistry,
	ProvideOrchestrator,
	ProvidePipeline,
	ProvidePricesUseCase,
	ProvideDefaultStrategies,
)

// InitializeApp wires up the HTTP application.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		coreSet,

		ProvideEndpointMetrics,
		ProvideRateLimiter,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeServices wires up the use cases for the command line.
func InitializeServices(cfg *config.Config) (*Services, func(), error) {
	wire.Build(
		coreSet,
		wire.Struct(new(Services), "*"),
	)
	return nil, nil, nil
}
