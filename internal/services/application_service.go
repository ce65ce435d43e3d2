package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/events"
	"github.com/jobportal/recruitment/internal/models"
	"github.com/jobportal/recruitment/pkg/phone"
)

// ApplicationDocumentInput references an uploaded document by URL.
type ApplicationDocumentInput struct {
	Type string
	URL  string
	Name *string
}

// CreateApplicationInput is a candidate's submission.
type CreateApplicationInput struct {
	JobID          string
	ApplicantName  string
	Email          string
	Phone          string
	CoverLetter    *string
	PassportNumber *string
	Documents      []ApplicationDocumentInput
}

// ApplicationFilter narrows the admin application list.
type ApplicationFilter struct {
	JobID  string
	Status string
	Page   Page
}

// ApplicationService stores job applications and their document references.
type ApplicationService struct {
	db  *gorm.DB
	bus EventBus.Bus
}

// NewApplicationService constructs an ApplicationService. bus may be nil.
func NewApplicationService(db *gorm.DB, bus EventBus.Bus) (*ApplicationService, error) {
	if db == nil {
		return nil, errors.New("application service: db is required")
	}
	return &ApplicationService{db: db, bus: bus}, nil
}

// Create stores an application and its documents atomically.
func (s *ApplicationService) Create(ctx context.Context, input CreateApplicationInput) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	application := &models.JobApplication{
		JobID:          strings.TrimSpace(input.JobID),
		ApplicantName:  strings.TrimSpace(input.ApplicantName),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		CoverLetter:    trimmedPtr(input.CoverLetter),
		PassportNumber: trimmedPtr(input.PassportNumber),
	}
	switch {
	case application.ApplicantName == "":
		return nil, invalidField("applicant_name", "is required")
	case application.Email == "":
		return nil, invalidField("email", "is required")
	}

	normalized, ok := phone.Normalize(input.Phone)
	if !ok {
		return nil, invalidField("phone", "invalid phone number format, use Kenyan format (e.g. 0705982249 or +254705982249)")
	}
	application.Phone = normalized

	for i, doc := range input.Documents {
		docType := models.DocumentType(strings.ToLower(strings.TrimSpace(doc.Type)))
		if !docType.Valid() {
			return nil, invalidField(fmt.Sprintf("documents[%d].document_type", i), "unknown document type", models.DocumentTypes...)
		}
		url := strings.TrimSpace(doc.URL)
		if url == "" {
			return nil, invalidField(fmt.Sprintf("documents[%d].document_url", i), "is required")
		}
		application.Documents = append(application.Documents, models.ApplicationDocument{
			Type: docType,
			URL:  url,
			Name: trimmedPtr(doc.Name),
		})
	}

	var job models.Job
	err := s.db.WithContext(ctx).First(&job, "id = ?", application.JobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: lookup job: %w", err)
	}
	if job.PassportRequired && application.PassportNumber == nil {
		return nil, invalidField("passport_number", "is required for this job")
	}

	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, fmt.Errorf("application service: create application: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
			ApplicationID: application.ID,
			JobID:         job.ID,
			JobTitle:      job.Title,
			ApplicantName: application.ApplicantName,
			Email:         application.Email,
			SubmittedAt:   application.AppliedDate,
		})
	}
	return application, nil
}

// Get loads an application with its documents and job.
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	var application models.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Documents").
		Preload("Job").
		First(&application, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("application service: get application: %w", err)
	}
	return &application, nil
}

// List returns applications, newest first.
func (s *ApplicationService) List(ctx context.Context, filter ApplicationFilter) ([]models.JobApplication, error) {
	ctx = ensureContext(ctx)
	page := filter.Page.normalise()

	query := s.db.WithContext(ctx).Model(&models.JobApplication{}).Preload("Documents")
	if jobID := strings.TrimSpace(filter.JobID); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		if !models.ApplicationStatus(status).Valid() {
			return nil, invalidField("status", "unknown application status", models.ApplicationStatuses...)
		}
		query = query.Where("status = ?", status)
	}

	var applications []models.JobApplication
	if err := query.Order("applied_date DESC").Offset(page.Skip).Limit(page.Limit).Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("application service: list applications: %w", err)
	}
	return applications, nil
}

// UpdateStatus moves an application to a new review status.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.JobApplication, error) {
	ctx = ensureContext(ctx)

	next := models.ApplicationStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, invalidField("status", "unknown application status", models.ApplicationStatuses...)
	}

	result := s.db.WithContext(ctx).
		Model(&models.JobApplication{}).
		Where("id = ?", strings.TrimSpace(id)).
		Update("status", next)
	if result.Error != nil {
		return nil, fmt.Errorf("application service: update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrApplicationNotFound
	}
	return s.Get(ctx, id)
}
