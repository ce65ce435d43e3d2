package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerApplicationRoutes(api *gin.RouterGroup, h *handlers.ApplicationHandler, throttle, requireAuth gin.HandlerFunc) {
	applications := api.Group("/applications")
	{
		applications.POST("", throttle, h.Create)

		applications.GET("", requireAuth, h.List)
		applications.GET("/:id", requireAuth, h.Get)
		applications.PATCH("/:id/status", requireAuth, h.UpdateStatus)
	}
}
