package models

// Agency is a recruitment agency employers can address inquiries to.
type Agency struct {
	BaseModel

	Name         string  `gorm:"not null;index" json:"name"`
	ContactEmail string  `gorm:"not null" json:"contact_email"`
	Phone        *string `json:"phone,omitempty"`
	Description  string  `json:"description"`

	Inquiries []EmployerInquiry `gorm:"foreignKey:AgencyID;constraint:OnDelete:CASCADE" json:"-"`
}
