package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/handlers"
)

func registerInquiryRoutes(api *gin.RouterGroup, h *handlers.InquiryHandler, throttle, requireAuth gin.HandlerFunc) {
	inquiries := api.Group("/employer-inquiries")
	{
		inquiries.POST("", throttle, h.Create)

		admin := inquiries.Group("", requireAuth)
		admin.GET("", h.List)
		admin.GET("/stats/summary", h.Stats)
		admin.POST("/bulk-update", h.BulkUpdate)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

func registerContactRoutes(api *gin.RouterGroup, h *handlers.ContactHandler, throttle, requireAuth gin.HandlerFunc) {
	contacts := api.Group("/contact-inquiries")
	{
		contacts.POST("", throttle, h.Create)

		admin := contacts.Group("", requireAuth)
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
