package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/response"
)

// AgencyHandler manages agencies and their dashboards.
type AgencyHandler struct {
	agencies  *services.AgencyService
	analytics *services.AnalyticsService
}

func NewAgencyHandler(agencies *services.AgencyService, analytics *services.AnalyticsService) *AgencyHandler {
	return &AgencyHandler{agencies: agencies, analytics: analytics}
}

type createAgencyRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	ContactEmail string  `json:"contact_email" validate:"required,email"`
	Phone        *string `json:"phone"`
	Description  string  `json:"description"`
}

// GET /api/agencies
func (h *AgencyHandler) List(c *gin.Context) {
	agencies, err := h.agencies.List(requestContext(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, agencies)
}

// POST /api/agencies
func (h *AgencyHandler) Create(c *gin.Context) {
	var body createAgencyRequest
	if !bindAndValidate(c, &body) {
		return
	}

	agency, err := h.agencies.Create(requestContext(c), services.CreateAgencyInput{
		Name:         body.Name,
		ContactEmail: body.ContactEmail,
		Phone:        body.Phone,
		Description:  body.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, agency)
}

// GET /api/agency-analytics/:id/dashboard
func (h *AgencyHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.AgencyDashboard(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}
