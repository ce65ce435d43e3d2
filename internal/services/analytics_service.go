package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/models"
)

const (
	dailyReportTTL    = 7 * 24 * time.Hour
	dashboardWindow   = 30 * 24 * time.Hour
	reportDateLayout  = "2006-01-02"
	dailyReportPrefix = "daily_report:"
)

// AgencyDashboard aggregates an agency's recent activity.
type AgencyDashboard struct {
	AgencyID           string        `json:"agency_id"`
	ActiveJobs         int64         `json:"active_jobs"`
	RecentApplications int64         `json:"recent_applications"`
	RecentInquiries    int64         `json:"recent_inquiries"`
	UrgentInquiries    int64         `json:"urgent_inquiries"`
	JobTrends          []DateCount   `json:"job_trends"`
	ApplicationStatus  []StatusCount `json:"application_status"`
}

// DateCount is a per-day tally.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatusCount is a per-status tally.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailyReport summarises activity since the start of the previous day.
type DailyReport struct {
	Date            string    `json:"date"`
	NewJobs         int64     `json:"new_jobs"`
	NewApplications int64     `json:"new_applications"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// AnalyticsService computes dashboards and the cached daily report.
type AnalyticsService struct {
	db    *gorm.DB
	cache *cache.Facade
	now   func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(db *gorm.DB, c *cache.Facade) (*AnalyticsService, error) {
	if db == nil {
		return nil, errors.New("analytics service: db is required")
	}
	return &AnalyticsService{db: db, cache: c, now: func() time.Time { return time.Now().UTC() }}, nil
}

// AgencyDashboard reports jobs and applications owned by the agency's users
// together with the agency's inquiries over the last 30 days.
func (s *AnalyticsService) AgencyDashboard(ctx context.Context, agencyID string) (*AgencyDashboard, error) {
	ctx = ensureContext(ctx)
	agencyID = strings.TrimSpace(agencyID)

	var agency models.Agency
	err := s.db.WithContext(ctx).Select("id").First(&agency, "id = ?", agencyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("analytics service: lookup agency: %w", err)
	}

	since := s.now().Add(-dashboardWindow)
	dashboard := &AgencyDashboard{AgencyID: agency.ID}

	agencyJobs := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&models.Job{}).
			Joins("JOIN users ON users.id = jobs.employer_id").
			Where("users.agency_id = ?", agency.ID)
	}
	agencyApplications := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&models.JobApplication{}).
			Joins("JOIN jobs ON jobs.id = job_applications.job_id").
			Joins("JOIN users ON users.id = jobs.employer_id").
			Where("users.agency_id = ?", agency.ID)
	}

	if err := agencyJobs().Where("jobs.status = ?", models.JobStatusActive).Count(&dashboard.ActiveJobs).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count active jobs: %w", err)
	}
	if err := agencyApplications().Where("job_applications.applied_date >= ?", since).Count(&dashboard.RecentApplications).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count applications: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.EmployerInquiry{}).
		Where("agency_id = ? AND created_at >= ?", agency.ID, since).
		Count(&dashboard.RecentInquiries).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count inquiries: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.EmployerInquiry{}).
		Where("agency_id = ? AND is_urgent = ?", agency.ID, true).
		Count(&dashboard.UrgentInquiries).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count urgent inquiries: %w", err)
	}

	var postedDates []time.Time
	if err := agencyJobs().Where("jobs.posted_date >= ?", since).Pluck("jobs.posted_date", &postedDates).Error; err != nil {
		return nil, fmt.Errorf("analytics service: job trends: %w", err)
	}
	perDay := lo.CountValuesBy(postedDates, func(t time.Time) string { return t.UTC().Format(reportDateLayout) })
	dashboard.JobTrends = lo.MapToSlice(perDay, func(date string, count int) DateCount {
		return DateCount{Date: date, Count: count}
	})
	sort.Slice(dashboard.JobTrends, func(i, j int) bool { return dashboard.JobTrends[i].Date < dashboard.JobTrends[j].Date })

	dashboard.ApplicationStatus = []StatusCount{}
	if err := agencyApplications().
		Select("job_applications.status AS status, COUNT(*) AS count").
		Group("job_applications.status").
		Order("job_applications.status").
		Scan(&dashboard.ApplicationStatus).Error; err != nil {
		return nil, fmt.Errorf("analytics service: application status: %w", err)
	}

	return dashboard, nil
}

// GenerateDailyReport counts jobs and applications created since the start of
// yesterday (UTC) and caches the result under daily_report:<yesterday> for 7 days.
func (s *AnalyticsService) GenerateDailyReport(ctx context.Context) (*DailyReport, error) {
	ctx = ensureContext(ctx)

	now := s.now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	report := &DailyReport{Date: yesterday.Format(reportDateLayout), GeneratedAt: now}
	if err := s.db.WithContext(ctx).Model(&models.Job{}).Where("created_at >= ?", yesterday).Count(&report.NewJobs).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count new jobs: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.JobApplication{}).Where("created_at >= ?", yesterday).Count(&report.NewApplications).Error; err != nil {
		return nil, fmt.Errorf("analytics service: count new applications: %w", err)
	}

	s.cache.Set(ctx, dailyReportPrefix+report.Date, report, dailyReportTTL)
	return report, nil
}

// DailyReport returns a previously generated report for date (YYYY-MM-DD).
func (s *AnalyticsService) DailyReport(ctx context.Context, date string) (*DailyReport, error) {
	ctx = ensureContext(ctx)

	day, err := time.Parse(reportDateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, invalidField("date", "must use the YYYY-MM-DD format")
	}

	var report DailyReport
	if !s.cache.Get(ctx, dailyReportPrefix+day.Format(reportDateLayout), &report) {
		return nil, ErrReportNotFound
	}
	return &report, nil
}
