package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/events"
	"github.com/jobportal/recruitment/internal/models"
)

func newInquiryService(t *testing.T) (*InquiryService, *gorm.DB, models.Agency) {
	t.Helper()
	db := openServiceTestDB(t)
	svc, err := NewInquiryService(db, EventBus.New())
	require.NoError(t, err)
	return svc, db, seededAgency(t, db)
}

func createTestInquiry(t *testing.T, svc *InquiryService, agencyID, employer string) *models.EmployerInquiry {
	t.Helper()
	inquiry, err := svc.Create(context.Background(), CreateInquiryInput{
		AgencyID:     agencyID,
		EmployerName: employer,
		Message:      "We need 20 warehouse staff",
		ContactEmail: "HR@Example.com",
	})
	require.NoError(t, err)
	return inquiry
}

func TestInquiryServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)

	var published []events.InquiryCreated
	require.NoError(t, svc.bus.Subscribe(events.InquiryCreatedTopic, func(evt events.InquiryCreated) {
		published = append(published, evt)
	}))

	inquiry, err := svc.Create(ctx, CreateInquiryInput{
		AgencyID:     agency.ID,
		EmployerName: "Acme Farms",
		Message:      "Seasonal pickers",
		ContactEmail: "ops@acme.example",
		ContactPhone: strPtr("0705 982 249"),
		IsUrgent:     true,
	})
	require.NoError(t, err)
	require.Equal(t, models.InquiryNew, inquiry.Status)
	require.Equal(t, models.PriorityMedium, inquiry.Priority)
	require.Equal(t, 2, inquiry.PriorityRank)
	require.Equal(t, "+254705982249", *inquiry.ContactPhone)
	require.True(t, inquiry.IsUrgent)

	require.Len(t, published, 1)
	require.Equal(t, inquiry.ID, published[0].InquiryID)
	require.True(t, published[0].IsUrgent)

	_, err = svc.Create(ctx, CreateInquiryInput{
		AgencyID: "missing", EmployerName: "x", Message: "y", ContactEmail: "z@example.com",
	})
	require.ErrorIs(t, err, ErrAgencyNotFound)

	_, err = svc.Create(ctx, CreateInquiryInput{
		AgencyID: agency.ID, EmployerName: "x", Message: "y", ContactEmail: "z@example.com",
		ContactPhone: strPtr("12345"),
	})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "contact_phone", vErr.Field)
}

func TestInquiryServiceUpdateStampsResolvedOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)
	inquiry := createTestInquiry(t, svc, agency.ID, "Acme")

	first := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	current := first
	svc.now = fixedClock(&current)

	updated, err := svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	require.Equal(t, models.InquiryResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.True(t, updated.ResolvedAt.Equal(first))
	require.True(t, updated.UpdatedAt.Equal(first))
	require.Nil(t, updated.RespondedAt)

	current = first.Add(2 * time.Hour)
	updated, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	require.True(t, updated.ResolvedAt.Equal(first))
	require.True(t, updated.UpdatedAt.Equal(current))

	_, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("closed")})
	require.NoError(t, err)
	current = first.Add(5 * time.Hour)
	updated, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	require.True(t, updated.ResolvedAt.Equal(first))
}

func TestInquiryServiceUpdateStampsRespondedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)
	inquiry := createTestInquiry(t, svc, agency.ID, "Acme")

	current := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(&current)

	updated, err := svc.Update(ctx, inquiry.ID, InquiryUpdate{AdminNotes: strPtr("called back")})
	require.NoError(t, err)
	require.Nil(t, updated.RespondedAt)
	require.Equal(t, "called back", *updated.AdminNotes)

	updated, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{
		AdminResponse: strPtr("We can supply staff next week"),
		Priority:      strPtr("urgent"),
		AssignedTo:    strPtr("jane"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RespondedAt)
	require.True(t, updated.RespondedAt.Equal(current))
	require.Equal(t, models.InquiryNew, updated.Status)
	require.Equal(t, models.PriorityUrgent, updated.Priority)
	require.Equal(t, 4, updated.PriorityRank)
	require.Equal(t, "jane", *updated.AssignedTo)
}

func TestInquiryServiceAllowsAnyTransition(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)
	inquiry := createTestInquiry(t, svc, agency.ID, "Acme")

	for _, status := range []string{"closed", "new", "resolved", "in_progress"} {
		updated, err := svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr(status)})
		require.NoError(t, err)
		require.Equal(t, models.InquiryStatus(status), updated.Status)
	}

	_, err := svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("archived")})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "status", vErr.Field)
	require.Equal(t, models.InquiryStatuses, vErr.Allowed)

	_, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Priority: strPtr("critical")})
	vErr, ok = AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "priority", vErr.Field)

	_, err = svc.Update(ctx, "missing", InquiryUpdate{Status: strPtr("new")})
	require.ErrorIs(t, err, ErrInquiryNotFound)
}

func TestInquiryServiceListOrdering(t *testing.T) {
	ctx := context.Background()
	svc, db, agency := newInquiryService(t)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	priorities := []models.InquiryPriority{models.PriorityLow, models.PriorityUrgent, models.PriorityMedium, models.PriorityUrgent}
	ids := make([]string, len(priorities))
	for i, priority := range priorities {
		inquiry := models.EmployerInquiry{
			AgencyID:     agency.ID,
			EmployerName: "Employer",
			Message:      "Need staff",
			ContactEmail: "e@example.com",
			Priority:     priority,
		}
		inquiry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&inquiry).Error)
		ids[i] = inquiry.ID
	}

	listed, err := svc.List(ctx, InquiryFilter{})
	require.NoError(t, err)
	got := make([]string, len(listed))
	for i, inquiry := range listed {
		got[i] = inquiry.ID
	}
	require.Equal(t, []string{ids[3], ids[1], ids[2], ids[0]}, got)

	listed, err = svc.List(ctx, InquiryFilter{Page: Page{Skip: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, ids[1], listed[0].ID)
}

func TestInquiryServiceListFilters(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)

	acme := createTestInquiry(t, svc, agency.ID, "Acme Farms")
	globex, err := svc.Create(ctx, CreateInquiryInput{
		AgencyID: agency.ID, EmployerName: "Globex", Message: "Looking for NURSES", ContactEmail: "talent@globex.example",
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, globex.ID, InquiryUpdate{Status: strPtr("in_progress"), AssignedTo: strPtr("amos")})
	require.NoError(t, err)

	byStatus, err := svc.List(ctx, InquiryFilter{Status: "in_progress"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, globex.ID, byStatus[0].ID)

	byAssignee, err := svc.List(ctx, InquiryFilter{AssignedTo: "amos"})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)

	for term, want := range map[string]string{"nurses": globex.ID, "ACME": acme.ID, "hr@example": acme.ID} {
		hits, err := svc.List(ctx, InquiryFilter{Search: term})
		require.NoError(t, err)
		require.Len(t, hits, 1, term)
		require.Equal(t, want, hits[0].ID, term)
	}

	_, err = svc.List(ctx, InquiryFilter{Priority: "critical"})
	_, ok := AsValidationError(err)
	require.True(t, ok)
}

func TestInquiryServiceBulkUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)

	a := createTestInquiry(t, svc, agency.ID, "A")
	b := createTestInquiry(t, svc, agency.ID, "B")
	c := createTestInquiry(t, svc, agency.ID, "C")

	current := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(&current)

	n, err := svc.BulkUpdate(ctx, []string{a.ID, b.ID, "missing", a.ID}, InquiryUpdate{
		Status:        strPtr("resolved"),
		Priority:      strPtr("high"),
		AdminResponse: strPtr("handled"),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	for _, id := range []string{a.ID, b.ID} {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, models.InquiryResolved, got.Status)
		require.Equal(t, models.PriorityHigh, got.Priority)
		require.Equal(t, 3, got.PriorityRank)
		require.True(t, got.UpdatedAt.Equal(current))
		require.Nil(t, got.ResolvedAt)
		require.Nil(t, got.RespondedAt)
	}

	untouched, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.InquiryNew, untouched.Status)
	require.False(t, untouched.UpdatedAt.Equal(current))

	_, err = svc.BulkUpdate(ctx, []string{"nope"}, InquiryUpdate{Status: strPtr("closed")})
	require.ErrorIs(t, err, ErrInquiryNotFound)

	_, err = svc.BulkUpdate(ctx, nil, InquiryUpdate{Status: strPtr("closed")})
	_, ok := AsValidationError(err)
	require.True(t, ok)
}

func TestInquiryServiceReResolvingAfterBulkLeavesResolvedAtUnset(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)
	inquiry := createTestInquiry(t, svc, agency.ID, "Acme")

	_, err := svc.BulkUpdate(ctx, []string{inquiry.ID}, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	require.Nil(t, updated.ResolvedAt)

	_, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("closed")})
	require.NoError(t, err)
	updated, err = svc.Update(ctx, inquiry.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
}

func TestInquiryServiceSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)

	createTestInquiry(t, svc, agency.ID, "Acme")
	promo, err := svc.Create(ctx, CreateInquiryInput{
		AgencyID: agency.ID, EmployerName: "Globex", Message: "50% of staff for off_season", ContactEmail: "talent@globex.example",
	})
	require.NoError(t, err)

	for _, term := range []string{"%", "_", "50%", "off_s"} {
		hits, err := svc.List(ctx, InquiryFilter{Search: term})
		require.NoError(t, err)
		require.Len(t, hits, 1, term)
		require.Equal(t, promo.ID, hits[0].ID, term)
	}

	hits, err := svc.List(ctx, InquiryFilter{Search: "!"})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestInquiryServiceStatsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, agency := newInquiryService(t)

	a := createTestInquiry(t, svc, agency.ID, "A")
	b := createTestInquiry(t, svc, agency.ID, "B")
	createTestInquiry(t, svc, agency.ID, "C")
	d := createTestInquiry(t, svc, agency.ID, "D")

	_, err := svc.Update(ctx, a.ID, InquiryUpdate{Status: strPtr("in_progress"), Priority: strPtr("urgent")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, b.ID, InquiryUpdate{Status: strPtr("resolved")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, d.ID, InquiryUpdate{Status: strPtr("closed")})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, &InquiryStats{Total: 4, New: 1, InProgress: 1, Resolved: 1, Urgent: 1}, stats)

	require.NoError(t, svc.Delete(ctx, d.ID))
	require.ErrorIs(t, svc.Delete(ctx, d.ID), ErrInquiryNotFound)
	_, err = svc.Get(ctx, d.ID)
	require.ErrorIs(t, err, ErrInquiryNotFound)
}
