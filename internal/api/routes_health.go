package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/app"
	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, db *gorm.DB, c *cache.Facade) {
	health := handlers.Health(db, c)
	r.GET("/health", health)
	r.GET("/api/health", health)
}

func registerMetricsRoute(r *gin.Engine, cfg app.MonitoringConfig) {
	if !cfg.Prometheus.Enabled {
		return
	}
	endpoint := strings.TrimSpace(cfg.Prometheus.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}
	r.GET(endpoint, gin.WrapH(promhttp.Handler()))
}
