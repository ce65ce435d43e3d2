package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is a posted vacancy.
type Job struct {
	BaseModel

	Title        string                     `gorm:"not null;index" json:"title"`
	Company      string                     `gorm:"not null" json:"company"`
	Location     string                     `gorm:"not null" json:"location"`
	Type         JobType                    `gorm:"type:varchar(16);not null" json:"type"`
	Description  string                     `gorm:"type:text;not null" json:"description"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Salary       string                     `gorm:"not null" json:"salary"`
	Status       JobStatus                  `gorm:"type:varchar(16);not null;default:active;index" json:"status"`
	PostedDate   time.Time                  `json:"posted_date"`
	EmployerID   *string                    `gorm:"type:varchar(36);index" json:"employer_id,omitempty"`

	PassportRequired  bool                              `gorm:"not null;default:false" json:"passport_required"`
	RequiredDocuments datatypes.JSONSlice[DocumentType] `json:"required_documents"`

	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate fills the posting date and default status.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if err := j.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if j.PostedDate.IsZero() {
		j.PostedDate = time.Now().UTC()
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}
	if j.Requirements == nil {
		j.Requirements = datatypes.JSONSlice[string]{}
	}
	if j.RequiredDocuments == nil {
		j.RequiredDocuments = datatypes.JSONSlice[DocumentType]{}
	}
	return nil
}
