package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/models"
)

// CreateAgencyInput registers a recruitment agency.
type CreateAgencyInput struct {
	Name         string
	ContactEmail string
	Phone        *string
	Description  string
}

// AgencyService manages agencies.
type AgencyService struct {
	db *gorm.DB
}

// NewAgencyService constructs an AgencyService.
func NewAgencyService(db *gorm.DB) (*AgencyService, error) {
	if db == nil {
		return nil, errors.New("agency service: db is required")
	}
	return &AgencyService{db: db}, nil
}

// List returns all agencies by name.
func (s *AgencyService) List(ctx context.Context) ([]models.Agency, error) {
	ctx = ensureContext(ctx)

	var agencies []models.Agency
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&agencies).Error; err != nil {
		return nil, fmt.Errorf("agency service: list agencies: %w", err)
	}
	return agencies, nil
}

// Get loads an agency.
func (s *AgencyService) Get(ctx context.Context, id string) (*models.Agency, error) {
	ctx = ensureContext(ctx)

	var agency models.Agency
	err := s.db.WithContext(ctx).First(&agency, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("agency service: get agency: %w", err)
	}
	return &agency, nil
}

// Create registers an agency.
func (s *AgencyService) Create(ctx context.Context, input CreateAgencyInput) (*models.Agency, error) {
	ctx = ensureContext(ctx)

	agency := &models.Agency{
		Name:         strings.TrimSpace(input.Name),
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		Description:  strings.TrimSpace(input.Description),
	}
	if agency.Name == "" {
		return nil, invalidField("name", "is required")
	}
	if agency.ContactEmail == "" {
		return nil, invalidField("contact_email", "is required")
	}
	normalized, err := normalisePhone("phone", input.Phone)
	if err != nil {
		return nil, err
	}
	agency.Phone = normalized

	if err := s.db.WithContext(ctx).Create(agency).Error; err != nil {
		return nil, fmt.Errorf("agency service: create agency: %w", err)
	}
	return agency, nil
}
