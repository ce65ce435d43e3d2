package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/models"
)

func seedAgencyActivity(t *testing.T, db *gorm.DB, agency models.Agency, now time.Time) (active, closed models.Job) {
	t.Helper()

	employer := models.User{Name: "Recruiter", Email: "recruiter@example.com", Role: models.RoleEmployer, PasswordHash: "x", AgencyID: &agency.ID}
	require.NoError(t, db.Create(&employer).Error)

	active = models.Job{Title: "Driver", Company: "C", Location: "L", Type: models.JobTypeFullTime, Description: "D", Salary: "S",
		EmployerID: &employer.ID, PostedDate: now.Add(-48 * time.Hour)}
	closed = models.Job{Title: "Cook", Company: "C", Location: "L", Type: models.JobTypeFullTime, Description: "D", Salary: "S",
		EmployerID: &employer.ID, Status: models.JobStatusClosed, PostedDate: now.Add(-48 * time.Hour)}
	orphan := models.Job{Title: "Guard", Company: "C", Location: "L", Type: models.JobTypeFullTime, Description: "D", Salary: "S"}
	for _, job := range []*models.Job{&active, &closed, &orphan} {
		require.NoError(t, db.Create(job).Error)
	}

	applications := []models.JobApplication{
		{JobID: active.ID, ApplicantName: "A", Email: "a@example.com", Phone: "+254700000001", AppliedDate: now.Add(-time.Hour)},
		{JobID: active.ID, ApplicantName: "B", Email: "b@example.com", Phone: "+254700000002", Status: models.ApplicationAccepted, AppliedDate: now.Add(-24 * time.Hour)},
		{JobID: closed.ID, ApplicantName: "C", Email: "c@example.com", Phone: "+254700000003", AppliedDate: now.Add(-40 * 24 * time.Hour)},
		{JobID: orphan.ID, ApplicantName: "D", Email: "d@example.com", Phone: "+254700000004", AppliedDate: now},
	}
	require.NoError(t, db.Create(&applications).Error)

	inquiries := []models.EmployerInquiry{
		{AgencyID: agency.ID, EmployerName: "E1", Message: "m", ContactEmail: "e1@example.com", IsUrgent: true},
		{AgencyID: agency.ID, EmployerName: "E2", Message: "m", ContactEmail: "e2@example.com"},
	}
	require.NoError(t, db.Create(&inquiries).Error)
	return active, closed
}

func TestAnalyticsServiceAgencyDashboard(t *testing.T) {
	ctx := context.Background()
	db := openServiceTestDB(t)
	facade, _ := newMemoryFacade(t)
	svc, err := NewAnalyticsService(db, facade)
	require.NoError(t, err)

	now := time.Now().UTC()
	agency := seededAgency(t, db)
	active, _ := seedAgencyActivity(t, db, agency, now)

	dashboard, err := svc.AgencyDashboard(ctx, agency.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, dashboard.ActiveJobs)
	require.EqualValues(t, 2, dashboard.RecentApplications)
	require.EqualValues(t, 2, dashboard.RecentInquiries)
	require.EqualValues(t, 1, dashboard.UrgentInquiries)
	require.Equal(t, []DateCount{{Date: active.PostedDate.Format("2006-01-02"), Count: 2}}, dashboard.JobTrends)
	require.ElementsMatch(t, []StatusCount{{Status: "accepted", Count: 1}, {Status: "pending", Count: 2}}, dashboard.ApplicationStatus)

	_, err = svc.AgencyDashboard(ctx, "missing")
	require.ErrorIs(t, err, ErrAgencyNotFound)
}

func TestAnalyticsServiceDailyReport(t *testing.T) {
	ctx := context.Background()
	db := openServiceTestDB(t)
	facade, store := newMemoryFacade(t)
	svc, err := NewAnalyticsService(db, facade)
	require.NoError(t, err)

	now := time.Now().UTC()
	svc.now = func() time.Time { return now }
	seedAgencyActivity(t, db, seededAgency(t, db), now)

	old := models.Job{Title: "Old", Company: "C", Location: "L", Type: models.JobTypeRemote, Description: "D", Salary: "S"}
	old.CreatedAt = now.AddDate(0, 0, -5)
	require.NoError(t, db.Create(&old).Error)

	report, err := svc.GenerateDailyReport(ctx)
	require.NoError(t, err)
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	require.Equal(t, yesterday, report.Date)
	require.EqualValues(t, 3, report.NewJobs)
	require.EqualValues(t, 4, report.NewApplications)

	exists, err := store.Exists(ctx, "daily_report:"+yesterday)
	require.NoError(t, err)
	require.True(t, exists)

	cached, err := svc.DailyReport(ctx, yesterday)
	require.NoError(t, err)
	require.Equal(t, report.NewJobs, cached.NewJobs)
	require.True(t, cached.GeneratedAt.Equal(report.GeneratedAt))

	_, err = svc.DailyReport(ctx, "2001-01-01")
	require.ErrorIs(t, err, ErrReportNotFound)
	_, err = svc.DailyReport(ctx, "yesterday")
	_, ok := AsValidationError(err)
	require.True(t, ok)
}
