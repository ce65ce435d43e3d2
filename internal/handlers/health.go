package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/pkg/response"
)

const healthProbeKey = "health:probe"

// Health reports database reachability and whether the cache accepts writes.
// A broken cache only degrades the status since every read path falls back
// to the database.
func Health(db *gorm.DB, c *cache.Facade) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		probeCtx, cancel := context.WithTimeout(requestContext(ctx), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "cache": "ok"}
		status := http.StatusOK
		overall := "ok"

		if err := pingDatabase(probeCtx, db); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
			overall = "unavailable"
		}

		if c == nil || !c.Set(probeCtx, healthProbeKey, time.Now().UTC().Unix(), time.Minute) {
			checks["cache"] = "unavailable"
			if overall == "ok" {
				overall = "degraded"
			}
		}

		response.Success(ctx, status, gin.H{"status": overall, "checks": checks})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
