package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/response"
)

// InquiryHandler exposes employer inquiry intake and the admin triage queue.
type InquiryHandler struct {
	svc *services.InquiryService
}

func NewInquiryHandler(svc *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

type createInquiryRequest struct {
	AgencyID     string  `json:"agency_id" validate:"required"`
	EmployerName string  `json:"employer_name" validate:"required,max=255"`
	Message      string  `json:"message" validate:"required"`
	ContactEmail string  `json:"contact_email" validate:"required,email"`
	ContactPhone *string `json:"contact_phone"`
	IsUrgent     bool    `json:"is_urgent"`
}

type inquiryUpdateRequest struct {
	Status        *string `json:"status" validate:"omitempty,inquiry_status"`
	Priority      *string `json:"priority" validate:"omitempty,inquiry_priority"`
	AdminNotes    *string `json:"admin_notes"`
	AdminResponse *string `json:"admin_response"`
	AssignedTo    *string `json:"assigned_to" validate:"omitempty,max=255"`
}

func (r inquiryUpdateRequest) empty() bool {
	return r.Status == nil && r.Priority == nil && r.AdminNotes == nil && r.AdminResponse == nil && r.AssignedTo == nil
}

func (r inquiryUpdateRequest) input() services.InquiryUpdate {
	return services.InquiryUpdate{
		Status:        r.Status,
		Priority:      r.Priority,
		AdminNotes:    r.AdminNotes,
		AdminResponse: r.AdminResponse,
		AssignedTo:    r.AssignedTo,
	}
}

type bulkInquiryUpdateRequest struct {
	InquiryIDs []string             `json:"inquiry_ids" validate:"required,min=1"`
	Updates    inquiryUpdateRequest `json:"update_data"`
}

// POST /api/employer-inquiries
func (h *InquiryHandler) Create(c *gin.Context) {
	var body createInquiryRequest
	if !bindAndValidate(c, &body) {
		return
	}

	inquiry, err := h.svc.Create(requestContext(c), services.CreateInquiryInput{
		AgencyID:     body.AgencyID,
		EmployerName: body.EmployerName,
		Message:      body.Message,
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
		IsUrgent:     body.IsUrgent,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, inquiry)
}

// GET /api/employer-inquiries
func (h *InquiryHandler) List(c *gin.Context) {
	page := pageQuery(c)
	inquiries, err := h.svc.List(requestContext(c), services.InquiryFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assigned_to"),
		Search:     c.Query("search"),
		Page:       page,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, inquiries, response.Page(page.Skip, page.Limit, len(inquiries)))
}

// GET /api/employer-inquiries/stats/summary
func (h *InquiryHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(requestContext(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GET /api/employer-inquiries/:id
func (h *InquiryHandler) Get(c *gin.Context) {
	inquiry, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inquiry)
}

// PUT /api/employer-inquiries/:id
func (h *InquiryHandler) Update(c *gin.Context) {
	var body inquiryUpdateRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if body.empty() {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	inquiry, err := h.svc.Update(requestContext(c), c.Param("id"), body.input())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inquiry)
}

// POST /api/employer-inquiries/bulk-update
func (h *InquiryHandler) BulkUpdate(c *gin.Context) {
	var body bulkInquiryUpdateRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if body.Updates.empty() {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	updated, err := h.svc.BulkUpdate(requestContext(c), body.InquiryIDs, body.Updates.input())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated_count": updated})
}

// DELETE /api/employer-inquiries/:id
func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
