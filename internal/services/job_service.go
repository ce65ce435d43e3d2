package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/models"
)

const (
	jobListTTL   = 5 * time.Minute
	jobDetailTTL = 10 * time.Minute
	jobSearchTTL = 15 * time.Minute
	jobViewsTTL  = 30 * 24 * time.Hour

	// PopularJobsLimit is the default size of the popular jobs ranking.
	PopularJobsLimit = 10
)

// CreateJobInput captures a new job posting.
type CreateJobInput struct {
	Title             string
	Company           string
	Location          string
	Type              string
	Description       string
	Requirements      []string
	Salary            string
	Status            string
	EmployerID        *string
	PassportRequired  bool
	RequiredDocuments []string
}

// UpdateJobInput carries the mutable job fields; nil fields are left untouched.
type UpdateJobInput struct {
	Title             *string
	Company           *string
	Location          *string
	Type              *string
	Description       *string
	Requirements      []string
	Salary            *string
	Status            *string
	PassportRequired  *bool
	RequiredDocuments []string
}

// DocumentRequirements is the document checklist applicants must satisfy.
type DocumentRequirements struct {
	JobID             string                `json:"job_id"`
	PassportRequired  bool                  `json:"passport_required"`
	RequiredDocuments []models.DocumentType `json:"required_documents"`
}

// UpdateDocumentRequirementsInput patches a job's document checklist.
type UpdateDocumentRequirementsInput struct {
	RequiredDocuments []string
	PassportRequired  *bool
}

// JobViews pairs a job with its ephemeral view counter.
type JobViews struct {
	JobID string `json:"job_id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// JobService serves the job catalog with cache-aside reads.
//
// Writes hit the database first and then drop the detail key and the default
// list page. Other list pages and search results are left to expire on their
// own TTL, so they can be stale for up to 5 and 15 minutes respectively.
type JobService struct {
	db    *gorm.DB
	cache *cache.Facade
}

// NewJobService constructs a JobService. A nil cache facade disables caching.
func NewJobService(db *gorm.DB, c *cache.Facade) (*JobService, error) {
	if db == nil {
		return nil, errors.New("job service: db is required")
	}
	return &JobService{db: db, cache: c}, nil
}

// List returns a page of jobs, newest first.
func (s *JobService) List(ctx context.Context, page Page) ([]models.Job, error) {
	ctx = ensureContext(ctx)
	page = page.normalise()

	key := jobListKey(page.Skip, page.Limit)
	var jobs []models.Job
	if s.cache.Get(ctx, key, &jobs) {
		return jobs, nil
	}

	if err := s.db.WithContext(ctx).
		Order("posted_date DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job service: list jobs: %w", err)
	}

	s.cache.Set(ctx, key, jobs, jobListTTL)
	return jobs, nil
}

// Get returns a single job. Missing jobs are never cached.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrJobNotFound
	}

	key := jobDetailKey(id)
	var job models.Job
	if s.cache.Get(ctx, key, &job) {
		return &job, nil
	}

	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, job, jobDetailTTL)
	return &job, nil
}

// Search matches term case-insensitively against title, company, location and
// description.
func (s *JobService) Search(ctx context.Context, term string, page Page) ([]models.Job, error) {
	ctx = ensureContext(ctx)
	page = page.normalise()

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalidField("q", "search term is required")
	}

	key := jobSearchKey(term, page.Skip, page.Limit)
	var jobs []models.Job
	if s.cache.Get(ctx, key, &jobs) {
		return jobs, nil
	}

	pattern := likePattern(term)
	if err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern, pattern).
		Order("posted_date DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job service: search jobs: %w", err)
	}

	s.cache.Set(ctx, key, jobs, jobSearchTTL)
	return jobs, nil
}

// Create stores a new job posting.
func (s *JobService) Create(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	ctx = ensureContext(ctx)

	job := &models.Job{
		Title:            strings.TrimSpace(input.Title),
		Company:          strings.TrimSpace(input.Company),
		Location:         strings.TrimSpace(input.Location),
		Type:             models.JobType(strings.TrimSpace(input.Type)),
		Description:      strings.TrimSpace(input.Description),
		Requirements:     datatypes.JSONSlice[string](normaliseRequirements(input.Requirements)),
		Salary:           strings.TrimSpace(input.Salary),
		Status:           models.JobStatus(strings.TrimSpace(input.Status)),
		EmployerID:       trimmedPtr(input.EmployerID),
		PassportRequired: input.PassportRequired,
	}

	for field, value := range map[string]string{
		"title":       job.Title,
		"company":     job.Company,
		"location":    job.Location,
		"description": job.Description,
		"salary":      job.Salary,
	} {
		if value == "" {
			return nil, invalidField(field, "is required")
		}
	}
	if !job.Type.Valid() {
		return nil, invalidField("type", "unknown job type", models.JobTypes...)
	}
	if job.Status != "" && !job.Status.Valid() {
		return nil, invalidField("status", "unknown job status", models.JobStatuses...)
	}

	docs, err := parseDocumentTypes(input.RequiredDocuments)
	if err != nil {
		return nil, err
	}
	job.RequiredDocuments = datatypes.JSONSlice[models.DocumentType](docs)

	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("job service: create job: %w", err)
	}

	s.invalidate(ctx, job.ID)
	return job, nil
}

// Update applies the non-nil fields of input.
func (s *JobService) Update(ctx context.Context, id string, input UpdateJobInput) (*models.Job, error) {
	ctx = ensureContext(ctx)

	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	for column, value := range map[string]*string{
		"title":       input.Title,
		"company":     input.Company,
		"location":    input.Location,
		"description": input.Description,
		"salary":      input.Salary,
	} {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil, invalidField(column, "cannot be empty")
		}
		updates[column] = trimmed
	}
	if input.Type != nil {
		jobType := models.JobType(strings.TrimSpace(*input.Type))
		if !jobType.Valid() {
			return nil, invalidField("type", "unknown job type", models.JobTypes...)
		}
		updates["type"] = jobType
	}
	if input.Status != nil {
		status := models.JobStatus(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, invalidField("status", "unknown job status", models.JobStatuses...)
		}
		updates["status"] = status
	}
	if input.Requirements != nil {
		updates["requirements"] = datatypes.JSONSlice[string](normaliseRequirements(input.Requirements))
	}
	if input.PassportRequired != nil {
		updates["passport_required"] = *input.PassportRequired
	}
	if input.RequiredDocuments != nil {
		docs, err := parseDocumentTypes(input.RequiredDocuments)
		if err != nil {
			return nil, err
		}
		updates["required_documents"] = datatypes.JSONSlice[models.DocumentType](docs)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&job).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("job service: update job: %w", err)
		}
	}

	s.invalidate(ctx, job.ID)
	return s.reload(ctx, job.ID)
}

// Delete removes a job and, through the foreign key, its applications.
func (s *JobService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	job, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var applicationIDs []string
		if err := tx.Model(&models.JobApplication{}).Where("job_id = ?", job.ID).Pluck("id", &applicationIDs).Error; err != nil {
			return err
		}
		if len(applicationIDs) > 0 {
			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.ApplicationDocument{}).Error; err != nil {
				return err
			}
			if err := tx.Where("job_id = ?", job.ID).Delete(&models.JobApplication{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Job{}, "id = ?", job.ID).Error
	})
	if err != nil {
		return fmt.Errorf("job service: delete job: %w", err)
	}

	s.invalidate(ctx, job.ID)
	return nil
}

// RecordView bumps the job's view counter and returns the new count. The
// counter lives only in the cache; when the cache is unavailable the view is
// dropped and zero is returned.
func (s *JobService) RecordView(ctx context.Context, id string) (int64, error) {
	ctx = ensureContext(ctx)

	job, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	count, ok := s.cache.Increment(ctx, jobViewsKey(job.ID), jobViewsTTL)
	if !ok {
		return 0, nil
	}
	return count, nil
}

// ViewCount reads the ephemeral view counter of a job.
func (s *JobService) ViewCount(ctx context.Context, id string) int64 {
	return s.cache.Counter(ensureContext(ctx), jobViewsKey(strings.TrimSpace(id)))
}

// Popular ranks active jobs by their view counters. Jobs without views are
// omitted; ties keep the newest posting first.
func (s *JobService) Popular(ctx context.Context, limit int) ([]JobViews, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = PopularJobsLimit
	}

	var jobs []models.Job
	if err := s.db.WithContext(ctx).
		Select("id", "title").
		Where("status = ?", models.JobStatusActive).
		Order("posted_date DESC").
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job service: list active jobs: %w", err)
	}

	ranked := lo.FilterMap(jobs, func(job models.Job, _ int) (JobViews, bool) {
		views := s.cache.Counter(ctx, jobViewsKey(job.ID))
		return JobViews{JobID: job.ID, Title: job.Title, Views: views}, views > 0
	})
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Views > ranked[j].Views })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// DocumentRequirements returns the document checklist of a job.
func (s *JobService) DocumentRequirements(ctx context.Context, id string) (*DocumentRequirements, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return documentRequirementsOf(job), nil
}

// UpdateDocumentRequirements replaces the required document list and, when
// given, the passport flag.
func (s *JobService) UpdateDocumentRequirements(ctx context.Context, id string, input UpdateDocumentRequirementsInput) (*DocumentRequirements, error) {
	ctx = ensureContext(ctx)

	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := parseDocumentTypes(input.RequiredDocuments)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"required_documents": datatypes.JSONSlice[models.DocumentType](docs),
	}
	if input.PassportRequired != nil {
		updates["passport_required"] = *input.PassportRequired
	}
	if err := s.db.WithContext(ctx).Model(&job).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("job service: update document requirements: %w", err)
	}

	s.invalidate(ctx, job.ID)
	updated, err := s.reload(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return documentRequirementsOf(updated), nil
}

func (s *JobService) load(ctx context.Context, id string) (models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).First(&job, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return job, ErrJobNotFound
	}
	if err != nil {
		return job, fmt.Errorf("job service: get job: %w", err)
	}
	return job, nil
}

func (s *JobService) reload(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) invalidate(ctx context.Context, id string) {
	s.cache.Delete(ctx, jobDetailKey(id), jobListKey(0, DefaultPageLimit))
}

func documentRequirementsOf(job *models.Job) *DocumentRequirements {
	docs := []models.DocumentType(job.RequiredDocuments)
	if docs == nil {
		docs = []models.DocumentType{}
	}
	return &DocumentRequirements{
		JobID:             job.ID,
		PassportRequired:  job.PassportRequired,
		RequiredDocuments: docs,
	}
}

func parseDocumentTypes(values []string) ([]models.DocumentType, error) {
	docs := make([]models.DocumentType, 0, len(values))
	for _, value := range values {
		doc := models.DocumentType(strings.ToLower(strings.TrimSpace(value)))
		if !doc.Valid() {
			return nil, invalidField("required_documents", fmt.Sprintf("unknown document type %q", value), models.DocumentTypes...)
		}
		docs = append(docs, doc)
	}
	return lo.Uniq(docs), nil
}

func normaliseRequirements(values []string) []string {
	out := lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
	if out == nil {
		return []string{}
	}
	return out
}

func jobListKey(skip, limit int) string {
	return fmt.Sprintf("jobs:list:%d:%d", skip, limit)
}

func jobDetailKey(id string) string {
	return "jobs:detail:" + id
}

func jobSearchKey(term string, skip, limit int) string {
	return fmt.Sprintf("jobs:search:%s:%d:%d", strings.ToLower(term), skip, limit)
}

func jobViewsKey(id string) string {
	return "jobs:views:" + id
}
