package config

import (
	"context"

	"croncommander/commons/routes"
	"croncommander/commons/server"
	"croncommander/internal/auth"
	"croncommander/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// ProvideSettings loads settings from file and environment
func ProvideSettings() (*Settings, error) {
	return LoadSettings()
}

// ProvideLogger creates and configures the logger for the application
func ProvideLogger(settings *Settings) (logger.Logger, error) {
	return logger.NewZapLogger(logger.Options{
		Level:       settings.Log.Level,
		Development: settings.Log.Development,
		Service:     settings.Service.Name,
	})
}

// ProvideFxLogger creates the FX event logger using the application logger
func ProvideFxLogger(log logger.Logger) fxevent.Logger {
	if zl, ok := log.(interface{ Logger() *zap.Logger }); ok {
		return &fxevent.ZapLogger{Logger: zl.Logger()}
	}
	return fxevent.NopLogger
}

// ProvideClients creates the lazily connected backend clients and closes them on shutdown
func ProvideClients(lc fx.Lifecycle, settings *Settings, log logger.Logger) *Clients {
	clients := NewClients(settings, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return clients.Close()
		},
	})
	return clients
}

// ProvideRouterConfig names the service for the router
func ProvideRouterConfig(settings *Settings) routes.RouterConfig {
	return routes.RouterConfig{
		ServiceName: settings.Service.Name,
		Version:     settings.Service.Version,
	}
}

// ProvideServerConfig creates the HTTP server configuration
func ProvideServerConfig(settings *Settings) server.ServerConfig {
	return server.ServerConfig{
		Host:              settings.Server.Host,
		Port:              settings.Server.Port,
		ReadHeaderTimeout: settings.Server.ReadHeaderTimeout,
		ShutdownTimeout:   settings.Server.ShutdownTimeout,
	}
}

// ProvideRouteDependencies creates route dependencies
func ProvideRouteDependencies(log logger.Logger, authenticator auth.Authenticator) routes.RouteDependencies {
	return routes.RouteDependencies{
		Logger:        log,
		Authenticator: authenticator,
	}
}

// ProvideRouter creates and configures the Gin router with all routes
func ProvideRouter(
	config routes.RouterConfig,
	deps routes.RouteDependencies,
	routeInitializer func(*gin.Engine, routes.RouteDependencies),
) *gin.Engine {
	router := routes.NewRouter(config, deps)
	routeInitializer(router, deps)
	return router
}
