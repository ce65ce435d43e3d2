package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/events"
	"github.com/jobportal/recruitment/internal/models"
)

// CreateInquiryInput is an employer's request addressed to an agency.
type CreateInquiryInput struct {
	AgencyID     string
	EmployerName string
	Message      string
	ContactEmail string
	ContactPhone *string
	IsUrgent     bool
}

// InquiryUpdate is the admin triage payload. Only these fields can change;
// nil fields are left untouched.
type InquiryUpdate struct {
	Status        *string
	Priority      *string
	AdminNotes    *string
	AdminResponse *string
	AssignedTo    *string
}

// InquiryFilter narrows the admin queue. Empty fields do not filter.
type InquiryFilter struct {
	Status     string
	Priority   string
	AssignedTo string
	Search     string
	Page       Page
}

// InquiryStats summarises the triage queue.
type InquiryStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Urgent     int64 `json:"urgent"`
}

// InquiryService runs the employer inquiry triage workflow.
//
// Any status may move to any other status; values are only checked against
// the known enumeration.
type InquiryService struct {
	db  *gorm.DB
	bus EventBus.Bus
	now func() time.Time
}

// NewInquiryService constructs an InquiryService. bus may be nil.
func NewInquiryService(db *gorm.DB, bus EventBus.Bus) (*InquiryService, error) {
	if db == nil {
		return nil, errors.New("inquiry service: db is required")
	}
	return &InquiryService{
		db:  db,
		bus: bus,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create records a new inquiry with status new and priority medium.
func (s *InquiryService) Create(ctx context.Context, input CreateInquiryInput) (*models.EmployerInquiry, error) {
	ctx = ensureContext(ctx)

	inquiry := &models.EmployerInquiry{
		AgencyID:     strings.TrimSpace(input.AgencyID),
		EmployerName: strings.TrimSpace(input.EmployerName),
		Message:      strings.TrimSpace(input.Message),
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		IsUrgent:     input.IsUrgent,
		Status:       models.InquiryNew,
		Priority:     models.PriorityMedium,
	}
	switch {
	case inquiry.EmployerName == "":
		return nil, invalidField("employer_name", "is required")
	case inquiry.Message == "":
		return nil, invalidField("message", "is required")
	case inquiry.ContactEmail == "":
		return nil, invalidField("contact_email", "is required")
	}

	contactPhone, err := normalisePhone("contact_phone", input.ContactPhone)
	if err != nil {
		return nil, err
	}
	inquiry.ContactPhone = contactPhone

	var agency models.Agency
	err = s.db.WithContext(ctx).Select("id").First(&agency, "id = ?", inquiry.AgencyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inquiry service: lookup agency: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: create inquiry: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(events.InquiryCreatedTopic, events.InquiryCreated{
			InquiryID:    inquiry.ID,
			AgencyID:     inquiry.AgencyID,
			EmployerName: inquiry.EmployerName,
			ContactEmail: inquiry.ContactEmail,
			IsUrgent:     inquiry.IsUrgent,
			CreatedAt:    inquiry.CreatedAt,
		})
	}
	return inquiry, nil
}

// Get loads an inquiry with its agency.
func (s *InquiryService) Get(ctx context.Context, id string) (*models.EmployerInquiry, error) {
	ctx = ensureContext(ctx)

	var inquiry models.EmployerInquiry
	err := s.db.WithContext(ctx).Preload("Agency").First(&inquiry, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inquiry service: get inquiry: %w", err)
	}
	return &inquiry, nil
}

// Update applies an admin triage change in a single write.
//
// resolved_at is stamped when the stored status moves from something else into
// resolved and the column is still empty; it is never overwritten. responded_at is stamped whenever a non-empty admin response is
// written, regardless of status.
func (s *InquiryService) Update(ctx context.Context, id string, input InquiryUpdate) (*models.EmployerInquiry, error) {
	ctx = ensureContext(ctx)

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := inquiryUpdateColumns(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if status, ok := updates["status"]; ok && status == models.InquiryResolved &&
		current.Status != models.InquiryResolved && current.ResolvedAt == nil {
		updates["resolved_at"] = now
	}
	if input.AdminResponse != nil && strings.TrimSpace(*input.AdminResponse) != "" {
		updates["responded_at"] = now
	}
	updates["updated_at"] = now

	if err := s.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.EmployerInquiry{}).
		Where("id = ?", current.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: update inquiry: %w", err)
	}

	return s.Get(ctx, current.ID)
}

// BulkUpdate writes the same values to every listed inquiry in one statement
// and returns the number of rows changed.
//
// Unlike Update it does not stamp resolved_at or responded_at per row.
func (s *InquiryService) BulkUpdate(ctx context.Context, ids []string, input InquiryUpdate) (int64, error) {
	ctx = ensureContext(ctx)

	ids = normaliseIDs(ids)
	if len(ids) == 0 {
		return 0, invalidField("inquiry_ids", "at least one id is required")
	}

	updates, err := inquiryUpdateColumns(input)
	if err != nil {
		return 0, err
	}
	updates["updated_at"] = s.now()

	result := s.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.EmployerInquiry{}).
		Where("id IN ?", ids).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("inquiry service: bulk update inquiries: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrInquiryNotFound
	}
	return result.RowsAffected, nil
}

// Delete hard-deletes an inquiry.
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.EmployerInquiry{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return fmt.Errorf("inquiry service: delete inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

// List returns the triage queue ordered by priority, then newest first.
func (s *InquiryService) List(ctx context.Context, filter InquiryFilter) ([]models.EmployerInquiry, error) {
	ctx = ensureContext(ctx)
	page := filter.Page.normalise()

	query := s.db.WithContext(ctx).Model(&models.EmployerInquiry{}).Preload("Agency")

	if status := strings.TrimSpace(filter.Status); status != "" {
		if !models.InquiryStatus(status).Valid() {
			return nil, invalidField("status", "unknown inquiry status", models.InquiryStatuses...)
		}
		query = query.Where("status = ?", status)
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		if !models.InquiryPriority(priority).Valid() {
			return nil, invalidField("priority", "unknown inquiry priority", models.InquiryPriorities...)
		}
		query = query.Where("priority = ?", priority)
	}
	if assignee := strings.TrimSpace(filter.AssignedTo); assignee != "" {
		query = query.Where("assigned_to = ?", assignee)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := likePattern(term)
		query = query.Where("LOWER(employer_name) LIKE ? ESCAPE '!' OR LOWER(contact_email) LIKE ? ESCAPE '!' OR LOWER(message) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	}

	var inquiries []models.EmployerInquiry
	if err := query.
		Order("priority_rank DESC").
		Order("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: list inquiries: %w", err)
	}
	return inquiries, nil
}

// Stats counts the queue with independent queries, so the numbers are not a
// consistent snapshot under concurrent writes.
func (s *InquiryService) Stats(ctx context.Context) (*InquiryStats, error) {
	ctx = ensureContext(ctx)

	stats := &InquiryStats{}
	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{dest: &stats.Total},
		{dest: &stats.New, query: "status = ?", args: []any{models.InquiryNew}},
		{dest: &stats.InProgress, query: "status = ?", args: []any{models.InquiryInProgress}},
		{dest: &stats.Resolved, query: "status = ?", args: []any{models.InquiryResolved}},
		{dest: &stats.Urgent, query: "priority = ?", args: []any{models.PriorityUrgent}},
	}
	for _, c := range counts {
		query := s.db.WithContext(ctx).Model(&models.EmployerInquiry{})
		if c.query != "" {
			query = query.Where(c.query, c.args...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("inquiry service: count inquiries: %w", err)
		}
	}
	return stats, nil
}

func inquiryUpdateColumns(input InquiryUpdate) (map[string]any, error) {
	updates := map[string]any{}

	if input.Status != nil {
		status := models.InquiryStatus(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, invalidField("status", "unknown inquiry status", models.InquiryStatuses...)
		}
		updates["status"] = status
	}
	if input.Priority != nil {
		priority := models.InquiryPriority(strings.TrimSpace(*input.Priority))
		if !priority.Valid() {
			return nil, invalidField("priority", "unknown inquiry priority", models.InquiryPriorities...)
		}
		updates["priority"] = priority
		updates["priority_rank"] = priority.Rank()
	}
	if input.AdminNotes != nil {
		updates["admin_notes"] = *input.AdminNotes
	}
	if input.AdminResponse != nil {
		updates["admin_response"] = *input.AdminResponse
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = trimmedPtr(input.AssignedTo)
	}
	return updates, nil
}
