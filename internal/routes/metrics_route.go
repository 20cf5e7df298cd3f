package routes

import (
	"croncommander/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsPath serves the Prometheus exposition
const MetricsPath = "/metrics"

func InitMetricsRoutes(router *gin.Engine, m *metrics.Metrics) {
	router.GET(MetricsPath, gin.WrapH(m.Handler()))
}
