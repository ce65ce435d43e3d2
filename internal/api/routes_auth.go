package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, throttle, requireAuth gin.HandlerFunc) {
	auth := api.Group("/auth")
	auth.POST("/token", throttle, h.Token)
	auth.GET("/me", requireAuth, h.Me)
}
