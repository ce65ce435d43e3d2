package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrJobNotFound         = errors.New("job service: job not found")
	ErrApplicationNotFound = errors.New("application service: application not found")
	ErrInquiryNotFound     = errors.New("inquiry service: inquiry not found")
	ErrContactNotFound     = errors.New("contact service: contact inquiry not found")
	ErrAgencyNotFound      = errors.New("agency service: agency not found")
	ErrReportNotFound      = errors.New("analytics service: report not found")
	ErrInvalidCredentials  = errors.New("auth service: invalid credentials")
)

// ValidationError rejects a malformed input field. Allowed lists the accepted
// values for enumerated fields.
type ValidationError struct {
	Field   string
	Message string
	Allowed []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	if len(e.Allowed) > 0 {
		msg += " (allowed: " + strings.Join(e.Allowed, ", ") + ")"
	}
	return msg
}

func invalidField(field, message string, allowed ...string) error {
	return &ValidationError{Field: field, Message: message, Allowed: allowed}
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
