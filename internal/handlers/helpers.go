package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/internal/services"
	appErrors "github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/response"
)

var notFoundEntities = []struct {
	err    error
	entity string
}{
	{services.ErrJobNotFound, "Job"},
	{services.ErrApplicationNotFound, "Application"},
	{services.ErrInquiryNotFound, "Inquiry"},
	{services.ErrContactNotFound, "Contact inquiry"},
	{services.ErrAgencyNotFound, "Agency"},
	{services.ErrReportNotFound, "Report"},
}

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// handleServiceError maps service errors onto the API envelope: sentinels to
// 404, validation failures to 400 and everything else to 500.
func handleServiceError(c *gin.Context, err error) {
	for _, nf := range notFoundEntities {
		if errors.Is(err, nf.err) {
			response.Error(c, appErrors.NewNotFound(nf.entity))
			return
		}
	}

	if vErr, ok := services.AsValidationError(err); ok {
		response.Error(c, appErrors.NewValidation(vErr.Field, vErr.Message, vErr.Allowed))
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	logger.WithModule("http").Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
}
