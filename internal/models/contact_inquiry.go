package models

import "time"

// ContactInquiry is a message from the public contact form.
type ContactInquiry struct {
	BaseModel

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"not null;index" json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Subject     string     `gorm:"not null" json:"subject"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	IsRead      bool       `gorm:"not null;default:false;index" json:"is_read"`
	Response    *string    `gorm:"type:text" json:"response,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}
