package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/response"
)

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type createContactRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject string  `json:"subject" validate:"required,max=255"`
	Message string  `json:"message" validate:"required"`
}

type updateContactRequest struct {
	IsRead   *bool   `json:"is_read"`
	Response *string `json:"response"`
}

// POST /api/contact-inquiries
func (h *ContactHandler) Create(c *gin.Context) {
	var body createContactRequest
	if !bindAndValidate(c, &body) {
		return
	}

	inquiry, err := h.svc.Create(requestContext(c), services.CreateContactInput{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, inquiry)
}

// GET /api/contact-inquiries
func (h *ContactHandler) List(c *gin.Context) {
	page := pageQuery(c)
	inquiries, err := h.svc.List(requestContext(c), services.ContactFilter{
		IsRead: optionalBoolQuery(c, "is_read"),
		Page:   page,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, inquiries, response.Page(page.Skip, page.Limit, len(inquiries)))
}

// GET /api/contact-inquiries/:id
func (h *ContactHandler) Get(c *gin.Context) {
	inquiry, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inquiry)
}

// PUT /api/contact-inquiries/:id
func (h *ContactHandler) Update(c *gin.Context) {
	var body updateContactRequest
	if !bindAndValidate(c, &body) {
		return
	}

	inquiry, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateContactInput{
		IsRead:   body.IsRead,
		Response: body.Response,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inquiry)
}

// DELETE /api/contact-inquiries/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
