package main

import (
	_ "time/tzdata"

	"croncommander/commons/config"
	"croncommander/commons/server"
	internalConfig "croncommander/internal/config"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(config.ProvideFxLogger),
		fx.Provide(
			config.ProvideSettings,
			config.ProvideLogger,
			config.ProvideClients,
			config.ProvideRouterConfig,
			config.ProvideServerConfig,
			config.ProvideRouteDependencies,
			internalConfig.ProvideGateway,
			internalConfig.ProvideAuthenticator,
			internalConfig.ProvideNonceStore,
			internalConfig.ProvideAuditPublisher,
			internalConfig.ProvideMetrics,
			internalConfig.ProvideToggleController,
			internalConfig.ProvideToggleGate,
			internalConfig.ProvideCatalog,
			internalConfig.ProvidePresenter,
			internalConfig.ProvideHealthHandler,
			internalConfig.ProvideCronHandler,
			internalConfig.ProvidePageHandler,
			internalConfig.ProvideRouteInitializer,
			config.ProvideRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(internalConfig.ManageLifecycle),
	).Run()
}
