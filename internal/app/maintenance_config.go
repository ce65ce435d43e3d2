package app

import (
	"strings"

	"github.com/jobportal/recruitment/internal/app/maintenance"
)

// Schedules converts the maintenance cron specs. Blank specs stay blank so the
// corresponding job is disabled.
func (c MaintenanceConfig) Schedules() maintenance.Schedules {
	return maintenance.Schedules{
		DailyReport:  strings.TrimSpace(c.DailyReport),
		SessionPrune: strings.TrimSpace(c.SessionPrune),
		CachePurge:   strings.TrimSpace(c.CachePurge),
	}
}
