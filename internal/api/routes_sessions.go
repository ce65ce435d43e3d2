package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerSessionRoutes(api *gin.RouterGroup, h *handlers.SessionHandler) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.Create)
		sessions.GET("/user/:userID", h.ListForUser)
		sessions.DELETE("/user/:userID", h.DeleteAllForUser)
		sessions.GET("/:id", h.Get)
		sessions.DELETE("/:id", h.Delete)
	}
}
