package models

import (
	"time"

	"gorm.io/gorm"
)

// JobApplication is a candidate's submission against a job.
type JobApplication struct {
	BaseModel

	JobID          string            `gorm:"type:varchar(36);not null;index" json:"job_id"`
	ApplicantName  string            `gorm:"not null" json:"applicant_name"`
	Email          string            `gorm:"not null;index" json:"email"`
	Phone          string            `gorm:"not null" json:"phone"`
	CoverLetter    *string           `gorm:"type:text" json:"cover_letter,omitempty"`
	PassportNumber *string           `json:"passport_number,omitempty"`
	Status         ApplicationStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	AppliedDate    time.Time         `json:"applied_date"`

	Documents []ApplicationDocument `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"documents"`
	Job       *Job                  `json:"job,omitempty"`
}

// BeforeCreate defaults the status and application date.
func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if err := a.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	if a.AppliedDate.IsZero() {
		a.AppliedDate = time.Now().UTC()
	}
	return nil
}

// ApplicationDocument references an uploaded file; the API never stores the bytes.
type ApplicationDocument struct {
	BaseModel

	ApplicationID string       `gorm:"type:varchar(36);not null;index" json:"application_id"`
	Type          DocumentType `gorm:"type:varchar(48);not null" json:"document_type"`
	URL           string       `gorm:"not null" json:"document_url"`
	Name          *string      `json:"document_name,omitempty"`
	UploadedAt    time.Time    `json:"uploaded_at"`
}

// BeforeCreate stamps the upload time.
func (d *ApplicationDocument) BeforeCreate(tx *gorm.DB) error {
	if err := d.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	return nil
}
