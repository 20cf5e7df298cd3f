package routes

import (
	"croncommander/commons/routes"
	"croncommander/internal/handler"

	"github.com/gin-gonic/gin"
)

// PagePath serves the HTML admin page
const PagePath = "/cron-commander"

func InitPageRoutes(
	router *gin.Engine,
	pageHandler *handler.PageHandler,
	deps routes.RouteDependencies,
) {
	router.SetHTMLTemplate(handler.Templates())
	router.GET(PagePath, routes.AuthGuard(deps), pageHandler.Render)
}
