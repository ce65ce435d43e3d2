package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobportal/recruitment/internal/models"
	"github.com/jobportal/recruitment/internal/services"
	appErrors "github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/response"
	appValidator "github.com/jobportal/recruitment/pkg/validator"
)

// enumTags maps custom validation tags to the values they accept, so failures
// can list them back to the client.
var enumTags = map[string][]string{
	"inquiry_status":     models.InquiryStatuses,
	"inquiry_priority":   models.InquiryPriorities,
	"job_type":           models.JobTypes,
	"job_status":         models.JobStatuses,
	"application_status": models.ApplicationStatuses,
	"document_type":      models.DocumentTypes,
}

func init() {
	for tag, allowed := range enumTags {
		if err := appValidator.RegisterValidation(tag, appValidator.OneOf(allowed...)); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
}

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.ErrValidation.WithMessage(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	ve, ok := err.(appValidator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return "invalid request payload"
	}

	messages := make([]string, 0, len(ve))
	for _, failure := range ve {
		field := failure.Field
		if allowed, enum := enumTags[failure.Tag]; enum {
			messages = append(messages, fmt.Sprintf("%s: invalid value (allowed: %s)", field, strings.Join(allowed, ", ")))
			continue
		}
		switch failure.Tag {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "kephone":
			messages = append(messages, fmt.Sprintf("%s: invalid phone number format, use Kenyan format (e.g. 0705982249 or +254705982249)", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, failure.Param))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, failure.Param))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", field))
		default:
			if failure.Param != "" {
				messages = append(messages, fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param))
			} else {
				messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, failure.Tag))
			}
		}
	}
	return strings.Join(messages, "; ")
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// pageQuery reads skip and limit. Out-of-range values are clamped by the services.
func pageQuery(c *gin.Context) services.Page {
	return services.Page{
		Skip:  parseIntQuery(c, "skip", 0),
		Limit: parseIntQuery(c, "limit", services.DefaultPageLimit),
	}
}

// optionalBoolQuery returns nil when key is absent or not a boolean.
func optionalBoolQuery(c *gin.Context, key string) *bool {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &parsed
}
