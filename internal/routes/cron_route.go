package routes

import (
	"net/http"

	"croncommander/commons/routes"
	"croncommander/internal/domain"
	"croncommander/internal/dto"
	"croncommander/internal/handler"

	"github.com/gin-gonic/gin"
)

// TogglePath is where toggle requests are posted, relative to the v1 API group
const TogglePath = "/crons/toggle"

// ToggleURL is the absolute path of the toggle endpoint
const ToggleURL = "/api/v1" + TogglePath

func InitCronRoutes(
	router *gin.Engine,
	cronHandler *handler.CronHandler,
	deps routes.RouteDependencies,
) {
	apiV1 := routes.CreateAPIGroup(router, "v1")

	// GET /api/v1/crons - Rendered schedule and a toggle token
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.ListCronsRequest, dto.ListCronsResponse]{
			Path:        "/crons",
			Method:      http.MethodGet,
			ServiceFunc: cronHandler.ListService,
			RequireAuth: true,
		},
	)

	// POST /api/v1/crons/toggle - Stop or (re)start a job
	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[dto.ToggleCronRequest, domain.ToggleResult]{
			Path:           TogglePath,
			Method:         http.MethodPost,
			ServiceFunc:    cronHandler.ToggleService,
			RequireAuth:    true,
			LenientBinding: true,
		},
	)
}
