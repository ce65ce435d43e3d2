package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/handlers/testutil"
	"github.com/jobportal/recruitment/internal/models"
)

func submitInquiry(t *testing.T, env *testutil.Env, agencyID, employer string, urgent bool) models.EmployerInquiry {
	t.Helper()

	w := env.Request(http.MethodPost, "/api/employer-inquiries", map[string]any{
		"agency_id":     agencyID,
		"employer_name": employer,
		"message":       "We need twenty drivers by March.",
		"contact_email": "hr@" + employer + ".example",
		"contact_phone": "+254 712 345 678",
		"is_urgent":     urgent,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inquiry models.EmployerInquiry
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &inquiry)
	return inquiry
}

func TestInquiryHandler_CreateDefaults(t *testing.T) {
	env := testutil.NewEnv(t)
	agency := env.FirstAgency()

	inquiry := submitInquiry(t, env, agency.ID, "acme", true)
	require.Equal(t, models.InquiryNew, inquiry.Status)
	require.Equal(t, models.PriorityMedium, inquiry.Priority)
	require.True(t, inquiry.IsUrgent)
	require.NotNil(t, inquiry.ContactPhone)
	require.Equal(t, "+254712345678", *inquiry.ContactPhone)
	require.Nil(t, inquiry.ResolvedAt)
}

func TestInquiryHandler_CreateUnknownAgency(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/employer-inquiries", map[string]any{
		"agency_id":     uuid.NewString(),
		"employer_name": "Acme",
		"message":       "Hello",
		"contact_email": "hr@acme.example",
	}, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Agency not found", testutil.DecodeResponse(t, w).Error.Message)
}

func TestInquiryHandler_TriageWorkflow(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()
	agency := env.FirstAgency()

	inquiry := submitInquiry(t, env, agency.ID, "globex", false)

	w := env.Request(http.MethodGet, "/api/employer-inquiries/"+inquiry.ID, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Request(http.MethodPut, "/api/employer-inquiries/"+inquiry.ID, map[string]any{}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "no fields provided for update", testutil.DecodeResponse(t, w).Error.Message)

	w = env.Request(http.MethodPut, "/api/employer-inquiries/"+inquiry.ID, map[string]any{"status": "escalated"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, testutil.DecodeResponse(t, w).Error.Message, "status: invalid value (allowed: new, in_progress, resolved, closed)")

	w = env.Request(http.MethodPut, "/api/employer-inquiries/"+inquiry.ID, map[string]any{
		"status":         "resolved",
		"admin_response": "Shortlist sent.",
		"assigned_to":    "wanjiru",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.EmployerInquiry
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &updated)
	require.Equal(t, models.InquiryResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.RespondedAt)

	w = env.Request(http.MethodGet, "/api/employer-inquiries?assigned_to=wanjiru", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var assigned []models.EmployerInquiry
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &assigned)
	require.Len(t, assigned, 1)

	w = env.Request(http.MethodDelete, "/api/employer-inquiries/"+inquiry.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.Request(http.MethodGet, "/api/employer-inquiries/"+inquiry.ID, nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Inquiry not found", testutil.DecodeResponse(t, w).Error.Message)
}

func TestInquiryHandler_BulkUpdateAndStats(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()
	agency := env.FirstAgency()

	first := submitInquiry(t, env, agency.ID, "initech", false)
	second := submitInquiry(t, env, agency.ID, "umbrella", true)
	submitInquiry(t, env, agency.ID, "hooli", false)

	w := env.Request(http.MethodPost, "/api/employer-inquiries/bulk-update", map[string]any{
		"inquiry_ids": []string{},
		"update_data": map[string]any{"priority": "high"},
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodPost, "/api/employer-inquiries/bulk-update", map[string]any{
		"inquiry_ids": []string{first.ID, second.ID, uuid.NewString()},
		"update_data": map[string]any{"status": "in_progress", "priority": "urgent"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var bulk struct {
		UpdatedCount int64 `json:"updated_count"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &bulk)
	require.EqualValues(t, 2, bulk.UpdatedCount)

	w = env.Request(http.MethodGet, "/api/employer-inquiries/stats/summary", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats struct {
		Total      int64 `json:"total"`
		New        int64 `json:"new"`
		InProgress int64 `json:"in_progress"`
		Resolved   int64 `json:"resolved"`
		Urgent     int64 `json:"urgent"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &stats)
	require.EqualValues(t, 3, stats.Total)
	require.EqualValues(t, 1, stats.New)
	require.EqualValues(t, 2, stats.InProgress)
	require.EqualValues(t, 0, stats.Resolved)
	require.EqualValues(t, 2, stats.Urgent)

	w = env.Request(http.MethodGet, "/api/employer-inquiries?priority=urgent", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var urgent []models.EmployerInquiry
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &urgent)
	require.Len(t, urgent, 2)
}
