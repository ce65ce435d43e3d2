package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/handlers/testutil"
	"github.com/jobportal/recruitment/internal/tasks"
)

func TestReportHandler_EnqueueAndFetch(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()
	createJob(t, env, token, nil)

	w := env.Request(http.MethodPost, "/api/reports/daily", nil, token)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var queued tasks.Snapshot
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &queued)
	require.NotEmpty(t, queued.ID)
	require.Equal(t, tasks.DailyReportTaskName, queued.Name)

	handle, ok := env.Tasks.Lookup(queued.ID)
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := handle.Wait(ctx)
	require.NoError(t, err)

	w = env.Request(http.MethodGet, "/api/tasks/"+queued.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var done struct {
		Status tasks.Status `json:"status"`
		Result struct {
			Date    string `json:"date"`
			NewJobs int64  `json:"new_jobs"`
		} `json:"result"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &done)
	require.Equal(t, tasks.StatusSucceeded, done.Status)
	require.EqualValues(t, 1, done.Result.NewJobs)

	w = env.Request(http.MethodGet, "/api/reports/daily/"+done.Result.Date, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestReportHandler_Misses(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	w := env.Request(http.MethodGet, "/api/reports/daily/1999-01-01", nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Report not found", testutil.DecodeResponse(t, w).Error.Message)

	w = env.Request(http.MethodGet, "/api/reports/daily/yesterday", nil, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodGet, "/api/tasks/unknown", nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Task not found", testutil.DecodeResponse(t, w).Error.Message)
}
