package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/response"
)

// ApplicationHandler accepts candidate applications and serves the admin review list.
type ApplicationHandler struct {
	svc *services.ApplicationService
}

func NewApplicationHandler(svc *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type applicationDocumentRequest struct {
	Type string  `json:"document_type"`
	URL  string  `json:"document_url"`
	Name *string `json:"document_name"`
}

// Document types and URLs are checked by the service so failures can name
// the offending list index.
type createApplicationRequest struct {
	JobID          string                       `json:"job_id" validate:"required"`
	ApplicantName  string                       `json:"applicant_name" validate:"required,max=255"`
	Email          string                       `json:"email" validate:"required,email"`
	Phone          string                       `json:"phone" validate:"required"`
	CoverLetter    *string                      `json:"cover_letter"`
	PassportNumber *string                      `json:"passport_number" validate:"omitempty,max=64"`
	Documents      []applicationDocumentRequest `json:"documents"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
}

// POST /api/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var body createApplicationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	docs := make([]services.ApplicationDocumentInput, 0, len(body.Documents))
	for _, doc := range body.Documents {
		docs = append(docs, services.ApplicationDocumentInput{Type: doc.Type, URL: doc.URL, Name: doc.Name})
	}

	application, err := h.svc.Create(requestContext(c), services.CreateApplicationInput{
		JobID:          body.JobID,
		ApplicantName:  body.ApplicantName,
		Email:          body.Email,
		Phone:          body.Phone,
		CoverLetter:    body.CoverLetter,
		PassportNumber: body.PassportNumber,
		Documents:      docs,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, application)
}

// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	page := pageQuery(c)
	applications, err := h.svc.List(requestContext(c), services.ApplicationFilter{
		JobID:  c.Query("job_id"),
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, applications, response.Page(page.Skip, page.Limit, len(applications)))
}

// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	application, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, application)
}

// PATCH /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var body applicationStatusRequest
	if !bindAndValidate(c, &body) {
		return
	}

	application, err := h.svc.UpdateStatus(requestContext(c), c.Param("id"), body.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, application)
}
