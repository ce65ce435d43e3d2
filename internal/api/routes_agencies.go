package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerAgencyRoutes(api *gin.RouterGroup, h *handlers.AgencyHandler, requireAuth gin.HandlerFunc) {
	agencies := api.Group("/agencies", requireAuth)
	{
		agencies.GET("", h.List)
		agencies.POST("", h.Create)
	}

	api.GET("/agency-analytics/:id/dashboard", requireAuth, h.Dashboard)
}

func registerReportRoutes(api *gin.RouterGroup, h *handlers.ReportHandler, requireAuth gin.HandlerFunc) {
	reports := api.Group("/reports", requireAuth)
	{
		reports.GET("/daily/:date", h.Daily)
		reports.POST("/daily", h.EnqueueDaily)
	}

	api.GET("/tasks/:id", requireAuth, h.Task)
}
