package routes

import (
	"net/http"

	"croncommander/commons/handler"
	"croncommander/internal/auth"
	"croncommander/internal/logger"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	ServiceName string
	Version     string
}

type RouteDependencies struct {
	Logger        logger.Logger
	Authenticator auth.Authenticator
}

type RouteOptions[InputDto any, OutputDto any] struct {
	Path           string
	Method         string
	ServiceFunc    handler.ServiceFunc[InputDto, OutputDto]
	RequireAuth    bool
	LenientBinding bool
}

func NewRouter(config RouterConfig, deps RouteDependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Add global middlewares
	r.Use(handler.RequestIDMiddleware())
	r.Use(handler.LoggingMiddleware(deps.Logger))
	r.Use(handler.ErrorHandlingMiddleware(deps.Logger))
	r.Use(handler.CORSMiddleware())

	// Set custom handlers for routing errors
	r.NoRoute(handler.NoRouteHandler())
	r.NoMethod(handler.NoMethodHandler())

	return r
}

// AuthGuard returns the authentication middleware for routes registered outside RegisterRoute
func AuthGuard(deps RouteDependencies) gin.HandlerFunc {
	return handler.AuthMiddleware(deps.Authenticator, deps.Logger)
}

func RegisterRoute[InputDto any, OutputDto any](
	group gin.IRouter,
	deps RouteDependencies,
	options RouteOptions[InputDto, OutputDto],
) {
	handlerDeps := handler.HandlerDependencies{
		Logger:         deps.Logger,
		LenientBinding: options.LenientBinding,
	}

	handlers := make([]gin.HandlerFunc, 0, 2)
	if options.RequireAuth {
		handlers = append(handlers, AuthGuard(deps))
	}
	handlers = append(handlers, handler.HandleFunc(handlerDeps, options.ServiceFunc))

	switch options.Method {
	case http.MethodGet:
		group.GET(options.Path, handlers...)
	case http.MethodPost:
		group.POST(options.Path, handlers...)
	case http.MethodPut:
		group.PUT(options.Path, handlers...)
	case http.MethodDelete:
		group.DELETE(options.Path, handlers...)
	case http.MethodPatch:
		group.PATCH(options.Path, handlers...)
	default:
		deps.Logger.Error("unsupported HTTP method",
			logger.String("method", options.Method),
			logger.String("path", options.Path))
	}
}

func CreateAPIGroup(router *gin.Engine, version string) *gin.RouterGroup {
	return router.Group("/api/" + version)
}
