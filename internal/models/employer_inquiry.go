package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployerInquiry is an employer's message to an agency, triaged by admins.
//
// PriorityRank mirrors Priority as an integer so the admin queue can be
// ordered by the database; writers that bypass hooks must set both.
type EmployerInquiry struct {
	BaseModel

	AgencyID     string  `gorm:"type:varchar(36);not null;index" json:"agency_id"`
	EmployerName string  `gorm:"not null" json:"employer_name"`
	Message      string  `gorm:"type:text;not null" json:"message"`
	ContactEmail string  `gorm:"not null" json:"contact_email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	IsUrgent     bool    `gorm:"not null;default:false" json:"is_urgent"`

	Status       InquiryStatus   `gorm:"type:varchar(16);not null;default:new;index" json:"status"`
	Priority     InquiryPriority `gorm:"type:varchar(16);not null;default:medium;index" json:"priority"`
	PriorityRank int             `gorm:"not null;default:2;index" json:"-"`

	AdminNotes    *string    `gorm:"type:text" json:"admin_notes,omitempty"`
	AdminResponse *string    `gorm:"type:text" json:"admin_response,omitempty"`
	AssignedTo    *string    `gorm:"index" json:"assigned_to,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`

	Agency *Agency `json:"agency,omitempty"`
}

// BeforeSave keeps PriorityRank consistent with Priority for struct writes.
func (e *EmployerInquiry) BeforeSave(tx *gorm.DB) error {
	if e.Status == "" {
		e.Status = InquiryNew
	}
	if e.Priority == "" {
		e.Priority = PriorityMedium
	}
	e.PriorityRank = e.Priority.Rank()
	return nil
}
