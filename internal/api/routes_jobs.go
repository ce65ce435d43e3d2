package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerJobRoutes(api *gin.RouterGroup, h *handlers.JobHandler, requireAuth gin.HandlerFunc) {
	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.List)
		jobs.GET("/search", h.Search)
		jobs.GET("/analytics/popular", h.Popular)
		jobs.GET("/:id", h.Get)
		jobs.POST("/:id/view", h.RecordView)
		jobs.GET("/:id/document-requirements", h.DocumentRequirements)

		jobs.POST("", requireAuth, h.Create)
		jobs.PUT("/:id", requireAuth, h.Update)
		jobs.DELETE("/:id", requireAuth, h.Delete)
		jobs.PATCH("/:id/document-requirements", requireAuth, h.UpdateDocumentRequirements)
	}
}
