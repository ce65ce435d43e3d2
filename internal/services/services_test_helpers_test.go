package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/database/testutil"
	"github.com/jobportal/recruitment/internal/models"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithSeedData())
}

func newMemoryFacade(t *testing.T) (*cache.Facade, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(store.Flush)
	return cache.NewFacade(store), store
}

func seededAgency(t *testing.T, db *gorm.DB) models.Agency {
	t.Helper()
	var agency models.Agency
	require.NoError(t, db.Where("name = ?", "Tech Recruiters Pro").First(&agency).Error)
	return agency
}

func fixedClock(current *time.Time) func() time.Time {
	return func() time.Time { return *current }
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
