// Package events names the in-process topics published on the shared EventBus.
package events

import "time"

var (
	InquiryCreatedTopic       = "inquiry.created"
	ApplicationSubmittedTopic = "application.submitted"
)

// InquiryCreated is published after an employer inquiry is persisted.
type InquiryCreated struct {
	InquiryID    string
	AgencyID     string
	EmployerName string
	ContactEmail string
	IsUrgent     bool
	CreatedAt    time.Time
}

// ApplicationSubmitted is published after an application and its documents are stored.
type ApplicationSubmitted struct {
	ApplicationID string
	JobID         string
	JobTitle      string
	ApplicantName string
	Email         string
	SubmittedAt   time.Time
}
