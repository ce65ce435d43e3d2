package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/models"
)

// CreateContactInput is a submission from the public contact form.
type CreateContactInput struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string
}

// UpdateContactInput marks an inquiry read or records a reply.
type UpdateContactInput struct {
	IsRead   *bool
	Response *string
}

// ContactFilter narrows the contact inbox.
type ContactFilter struct {
	IsRead *bool
	Page   Page
}

// ContactService manages contact-form inquiries.
type ContactService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewContactService constructs a ContactService.
func NewContactService(db *gorm.DB) (*ContactService, error) {
	if db == nil {
		return nil, errors.New("contact service: db is required")
	}
	return &ContactService{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Create stores an unread inquiry, normalising the optional phone number.
func (s *ContactService) Create(ctx context.Context, input CreateContactInput) (*models.ContactInquiry, error) {
	ctx = ensureContext(ctx)

	inquiry := &models.ContactInquiry{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	switch {
	case inquiry.Name == "":
		return nil, invalidField("name", "is required")
	case inquiry.Email == "":
		return nil, invalidField("email", "is required")
	case inquiry.Subject == "":
		return nil, invalidField("subject", "is required")
	case inquiry.Message == "":
		return nil, invalidField("message", "is required")
	}

	normalized, err := normalisePhone("phone", input.Phone)
	if err != nil {
		return nil, err
	}
	inquiry.Phone = normalized

	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, fmt.Errorf("contact service: create inquiry: %w", err)
	}
	return inquiry, nil
}

// List returns contact inquiries, newest first.
func (s *ContactService) List(ctx context.Context, filter ContactFilter) ([]models.ContactInquiry, error) {
	ctx = ensureContext(ctx)
	page := filter.Page.normalise()

	query := s.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}

	var inquiries []models.ContactInquiry
	if err := query.Order("created_at DESC").Offset(page.Skip).Limit(page.Limit).Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("contact service: list inquiries: %w", err)
	}
	return inquiries, nil
}

// Get loads a contact inquiry.
func (s *ContactService) Get(ctx context.Context, id string) (*models.ContactInquiry, error) {
	ctx = ensureContext(ctx)

	var inquiry models.ContactInquiry
	err := s.db.WithContext(ctx).First(&inquiry, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contact service: get inquiry: %w", err)
	}
	return &inquiry, nil
}

// Update sets the read flag and stamps responded_at whenever a response is given.
func (s *ContactService) Update(ctx context.Context, id string, input UpdateContactInput) (*models.ContactInquiry, error) {
	ctx = ensureContext(ctx)

	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.IsRead != nil {
		updates["is_read"] = *input.IsRead
	}
	if input.Response != nil {
		updates["response"] = *input.Response
		updates["responded_at"] = s.now()
	}
	if len(updates) == 0 {
		return inquiry, nil
	}

	if err := s.db.WithContext(ctx).Model(inquiry).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("contact service: update inquiry: %w", err)
	}
	return s.Get(ctx, inquiry.ID)
}

// Delete removes a contact inquiry.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.ContactInquiry{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return fmt.Errorf("contact service: delete inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
