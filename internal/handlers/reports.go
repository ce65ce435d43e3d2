package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/internal/tasks"
	appErrors "github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/response"
)

// TaskQueue is the subset of the dispatcher the report endpoints need.
type TaskQueue interface {
	Submit(task tasks.Task) (*tasks.Handle, error)
	Lookup(id string) (*tasks.Handle, bool)
}

// ReportHandler serves daily reports and background task status.
type ReportHandler struct {
	analytics *services.AnalyticsService
	queue     TaskQueue
}

func NewReportHandler(analytics *services.AnalyticsService, queue TaskQueue) *ReportHandler {
	return &ReportHandler{analytics: analytics, queue: queue}
}

// GET /api/reports/daily/:date
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.analytics.DailyReport(requestContext(c), c.Param("date"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// POST /api/reports/daily
//
// Queues report generation and answers 202 with the task handle.
func (h *ReportHandler) EnqueueDaily(c *gin.Context) {
	handle, err := h.queue.Submit(tasks.DailyReport(h.analytics))
	if err != nil {
		if errors.Is(err, tasks.ErrQueueFull) || errors.Is(err, tasks.ErrDispatcherClosed) {
			response.Error(c, appErrors.ErrServiceUnavailable.WithInternal(err))
			return
		}
		handleServiceError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, handle.Snapshot())
}

// GET /api/tasks/:id
func (h *ReportHandler) Task(c *gin.Context) {
	handle, ok := h.queue.Lookup(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.NewNotFound("Task"))
		return
	}
	response.Success(c, http.StatusOK, handle.Snapshot())
}
