package config

import (
	"context"
	"fmt"
	"time"

	commonsConfig "croncommander/commons/config"
	"croncommander/commons/routes"
	"croncommander/commons/server"
	"croncommander/internal/audit"
	"croncommander/internal/auth"
	"croncommander/internal/domain"
	dynamoGateway "croncommander/internal/gateway/dynamodb"
	gateway "croncommander/internal/gateway/iface"
	memoryGateway "croncommander/internal/gateway/memory"
	redisGateway "croncommander/internal/gateway/redis"
	zkGateway "croncommander/internal/gateway/zk"
	"croncommander/internal/handler"
	"croncommander/internal/i18n"
	"croncommander/internal/logger"
	"croncommander/internal/metrics"
	"croncommander/internal/nonce"
	internalRoutes "croncommander/internal/routes"
	"croncommander/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Gateway Providers

// ProvideGateway connects to the scheduler backend named by scheduler.backend
func ProvideGateway(
	settings *commonsConfig.Settings,
	clients *commonsConfig.Clients,
	log logger.Logger,
) (gateway.Gateway, error) {
	switch settings.Scheduler.Backend {
	case commonsConfig.BackendMemory:
		jobs := make([]domain.ScheduledJob, 0, len(settings.Scheduler.Seed))
		for _, seed := range settings.Scheduler.Seed {
			jobs = append(jobs, domain.ScheduledJob{
				HookID:     seed.Hook,
				DueTime:    seed.Timestamp,
				Recurrence: seed.Recurrence,
			})
		}
		return memoryGateway.NewGateway(time.Now, log, jobs...), nil

	case commonsConfig.BackendRedis:
		c, err := clients.Redis()
		if err != nil {
			return nil, fmt.Errorf("failed to connect scheduler redis: %w", err)
		}
		return redisGateway.NewGateway(c, settings.Redis.Prefix, time.Now, log), nil

	case commonsConfig.BackendDynamoDB:
		client, err := clients.DynamoDB(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to configure scheduler dynamodb: %w", err)
		}
		return dynamoGateway.NewGateway(client, settings.DynamoDB.Table, time.Now, log), nil

	case commonsConfig.BackendZooKeeper:
		coord, err := clients.ZooKeeper()
		if err != nil {
			return nil, fmt.Errorf("failed to connect scheduler zookeeper: %w", err)
		}
		return zkGateway.NewGateway(coord, settings.ZooKeeper.Root, time.Now, log), nil

	default:
		return nil, fmt.Errorf("unknown scheduler backend %q", settings.Scheduler.Backend)
	}
}

// Request Boundary Providers

// ProvideAuthenticator builds the API key authenticator from auth.keys and auth.admin_key
func ProvideAuthenticator(settings *commonsConfig.Settings, log logger.Logger) auth.Authenticator {
	keys := make([]auth.APIKey, 0, len(settings.Auth.Keys)+1)
	for _, k := range settings.Auth.Keys {
		keys = append(keys, auth.APIKey{
			Key:          k.Key,
			Caller:       k.Caller,
			Capabilities: k.Capabilities,
		})
	}
	if settings.Auth.AdminKey != "" {
		keys = append(keys, auth.APIKey{
			Key:          settings.Auth.AdminKey,
			Caller:       "admin",
			Capabilities: []string{string(auth.CapabilityManageOptions)},
		})
	}

	if len(keys) == 0 {
		log.Warn("no api keys configured, every request will be rejected")
	}

	return auth.NewKeyAuthenticator(keys)
}

// ProvideNonceStore creates the token store named by nonce.backend
func ProvideNonceStore(settings *commonsConfig.Settings, clients *commonsConfig.Clients) (nonce.Store, error) {
	switch settings.Nonce.Backend {
	case commonsConfig.BackendRedis:
		c, err := clients.Redis()
		if err != nil {
			return nil, fmt.Errorf("failed to connect nonce redis: %w", err)
		}
		return nonce.NewRedisStore(c, settings.Nonce.TTL), nil
	default:
		return nonce.NewMemoryStore(settings.Nonce.Capacity, settings.Nonce.TTL), nil
	}
}

// ProvideAuditPublisher creates the audit sink named by audit.backend
func ProvideAuditPublisher(
	settings *commonsConfig.Settings,
	clients *commonsConfig.Clients,
	log logger.Logger,
) (audit.Publisher, error) {
	if settings.Audit.Backend != commonsConfig.AuditSQS {
		return audit.NewLogPublisher(log), nil
	}

	client, err := clients.SQS(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to configure audit sqs: %w", err)
	}
	return audit.NewSQSPublisher(client, settings.Audit.QueueURL, log), nil
}

// ProvideMetrics registers the service collectors on a fresh registry
func ProvideMetrics() *metrics.Metrics {
	return metrics.MustNewMetrics(metrics.NewRegistry())
}

// Service Providers

func ProvideToggleController(
	gw gateway.Gateway,
	settings *commonsConfig.Settings,
	log logger.Logger,
) *service.ToggleController {
	return service.NewToggleController(gw, settings.Scheduler.ReArmDelay, log)
}

func ProvideToggleGate(
	controller *service.ToggleController,
	nonces nonce.Store,
	publisher audit.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
) *service.ToggleGate {
	return service.NewToggleGate(controller, nonces, publisher, m, log)
}

func ProvideCatalog(settings *commonsConfig.Settings) (*i18n.Catalog, error) {
	return i18n.NewCatalog(settings.Display.Locale)
}

func ProvidePresenter(
	gw gateway.Gateway,
	catalog *i18n.Catalog,
	settings *commonsConfig.Settings,
	m *metrics.Metrics,
	log logger.Logger,
) (*service.Presenter, error) {
	location, err := time.LoadLocation(settings.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", settings.Display.Timezone, err)
	}

	intervals := service.NewIntervalRegistry(settings.Display.Intervals)
	return service.NewPresenter(gw, catalog, intervals, location, m, log), nil
}

// Handler Providers

func ProvideHealthHandler(settings *commonsConfig.Settings, log logger.Logger) *handler.HealthHandler {
	return handler.NewHealthHandler(log, settings.Service.Name, settings.Scheduler.Backend)
}

func ProvideCronHandler(
	presenter *service.Presenter,
	gate *service.ToggleGate,
	log logger.Logger,
) *handler.CronHandler {
	return handler.NewCronHandler(presenter, gate, log)
}

func ProvidePageHandler(
	presenter *service.Presenter,
	gate *service.ToggleGate,
	log logger.Logger,
) *handler.PageHandler {
	return handler.NewPageHandler(presenter, gate, internalRoutes.ToggleURL, log)
}

// ProvideRouteInitializer registers every route on the router
func ProvideRouteInitializer(
	healthHandler *handler.HealthHandler,
	cronHandler *handler.CronHandler,
	pageHandler *handler.PageHandler,
	m *metrics.Metrics,
) func(*gin.Engine, routes.RouteDependencies) {
	return func(router *gin.Engine, deps routes.RouteDependencies) {
		internalRoutes.InitHealthRoutes(router, healthHandler, deps)
		internalRoutes.InitCronRoutes(router, cronHandler, deps)
		internalRoutes.InitPageRoutes(router, pageHandler, deps)
		internalRoutes.InitMetricsRoutes(router, m)
	}
}

// ManageLifecycle starts the HTTP server with the application and logs the active backends
func ManageLifecycle(
	lc fx.Lifecycle,
	_ *server.HTTPServer,
	settings *commonsConfig.Settings,
	log logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("cron commander ready",
				logger.String("scheduler_backend", settings.Scheduler.Backend),
				logger.String("nonce_backend", settings.Nonce.Backend),
				logger.String("audit_backend", settings.Audit.Backend),
				logger.Duration("rearm_delay", settings.Scheduler.ReArmDelay))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}
