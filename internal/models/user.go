package models

// User is a portal account. Only password holders can obtain admin tokens.
type User struct {
	BaseModel

	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:user" json:"role"`
	PasswordHash string   `gorm:"not null" json:"-"`

	AgencyID *string `gorm:"type:varchar(36);index" json:"agency_id,omitempty"`
	Agency   *Agency `json:"agency,omitempty"`
}
