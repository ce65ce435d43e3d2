package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/models"
)

// Seed describes start-up data. Zero values skip the corresponding step.
type Seed struct {
	// Admin is created when no user with its email exists. PasswordHash must be a bcrypt hash.
	Admin *models.User
	// Agencies are inserted by name if missing.
	Agencies []models.Agency
}

// DefaultAgencies are the agencies a fresh installation starts with.
func DefaultAgencies() []models.Agency {
	return []models.Agency{
		{Name: "Tech Recruiters Pro", ContactEmail: "contact@techrecruiterspro.com", Description: "Technology and engineering placements"},
		{Name: "Global Talent Solutions", ContactEmail: "info@globaltalentsolutions.com", Description: "International and overseas placements"},
		{Name: "Creative Staffing Agency", ContactEmail: "hello@creativestaffing.com", Description: "Hospitality and creative roles"},
	}
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Agency{},
		&models.User{},
		&models.Job{},
		&models.JobApplication{},
		&models.ApplicationDocument{},
		&models.EmployerInquiry{},
		&models.ContactInquiry{},
		&models.CacheEntry{},
	)
}

// SeedData inserts the admin account and agencies without touching existing rows.
func SeedData(db *gorm.DB, seed Seed) error {
	for _, agency := range seed.Agencies {
		agency := agency
		if err := db.Where(models.Agency{Name: agency.Name}).Attrs(agency).FirstOrCreate(&models.Agency{}).Error; err != nil {
			return err
		}
	}

	if seed.Admin != nil && strings.TrimSpace(seed.Admin.Email) != "" {
		admin := *seed.Admin
		admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
		if admin.Role == "" {
			admin.Role = models.RoleAdmin
		}
		if err := db.Where(models.User{Email: admin.Email}).Attrs(admin).FirstOrCreate(&models.User{}).Error; err != nil {
			return err
		}
	}

	return nil
}
