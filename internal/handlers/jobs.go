package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/pkg/response"
)

// JobHandler serves the job catalog.
type JobHandler struct {
	svc *services.JobService
}

func NewJobHandler(svc *services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type createJobRequest struct {
	Title             string   `json:"title" validate:"required,max=255"`
	Company           string   `json:"company" validate:"required,max=255"`
	Location          string   `json:"location" validate:"required,max=255"`
	Type              string   `json:"type" validate:"required,job_type"`
	Description       string   `json:"description" validate:"required"`
	Requirements      []string `json:"requirements"`
	Salary            string   `json:"salary" validate:"required,max=128"`
	Status            string   `json:"status" validate:"omitempty,job_status"`
	EmployerID        *string  `json:"employer_id" validate:"omitempty,uuid"`
	PassportRequired  bool     `json:"passport_required"`
	RequiredDocuments []string `json:"required_documents" validate:"omitempty,dive,document_type"`
}

type updateJobRequest struct {
	Title             *string  `json:"title" validate:"omitempty,max=255"`
	Company           *string  `json:"company" validate:"omitempty,max=255"`
	Location          *string  `json:"location" validate:"omitempty,max=255"`
	Type              *string  `json:"type" validate:"omitempty,job_type"`
	Description       *string  `json:"description"`
	Requirements      []string `json:"requirements"`
	Salary            *string  `json:"salary" validate:"omitempty,max=128"`
	Status            *string  `json:"status" validate:"omitempty,job_status"`
	PassportRequired  *bool    `json:"passport_required"`
	RequiredDocuments []string `json:"required_documents" validate:"omitempty,dive,document_type"`
}

type documentRequirementsRequest struct {
	RequiredDocuments []string `json:"required_documents" validate:"required,dive,document_type"`
	PassportRequired  *bool    `json:"passport_required"`
}

// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	page := pageQuery(c)
	jobs, err := h.svc.List(requestContext(c), page)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, jobs, response.Page(page.Skip, page.Limit, len(jobs)))
}

// GET /api/jobs/search?q=
func (h *JobHandler) Search(c *gin.Context) {
	page := pageQuery(c)
	jobs, err := h.svc.Search(requestContext(c), c.Query("q"), page)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, jobs, response.Page(page.Skip, page.Limit, len(jobs)))
}

// GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var body createJobRequest
	if !bindAndValidate(c, &body) {
		return
	}

	job, err := h.svc.Create(requestContext(c), services.CreateJobInput{
		Title:             body.Title,
		Company:           body.Company,
		Location:          body.Location,
		Type:              body.Type,
		Description:       body.Description,
		Requirements:      body.Requirements,
		Salary:            body.Salary,
		Status:            body.Status,
		EmployerID:        body.EmployerID,
		PassportRequired:  body.PassportRequired,
		RequiredDocuments: body.RequiredDocuments,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, job)
}

// PUT /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	var body updateJobRequest
	if !bindAndValidate(c, &body) {
		return
	}

	job, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateJobInput{
		Title:             body.Title,
		Company:           body.Company,
		Location:          body.Location,
		Type:              body.Type,
		Description:       body.Description,
		Requirements:      body.Requirements,
		Salary:            body.Salary,
		Status:            body.Status,
		PassportRequired:  body.PassportRequired,
		RequiredDocuments: body.RequiredDocuments,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/jobs/:id/view
func (h *JobHandler) RecordView(c *gin.Context) {
	id := c.Param("id")
	views, err := h.svc.RecordView(requestContext(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"job_id": id, "views": views})
}

// GET /api/jobs/analytics/popular
func (h *JobHandler) Popular(c *gin.Context) {
	limit := parseIntQuery(c, "limit", services.PopularJobsLimit)
	jobs, err := h.svc.Popular(requestContext(c), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, jobs)
}

// GET /api/jobs/:id/document-requirements
func (h *JobHandler) DocumentRequirements(c *gin.Context) {
	reqs, err := h.svc.DocumentRequirements(requestContext(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

// PATCH /api/jobs/:id/document-requirements
func (h *JobHandler) UpdateDocumentRequirements(c *gin.Context) {
	var body documentRequirementsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	reqs, err := h.svc.UpdateDocumentRequirements(requestContext(c), c.Param("id"), services.UpdateDocumentRequirementsInput{
		RequiredDocuments: body.RequiredDocuments,
		PassportRequired:  body.PassportRequired,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}
