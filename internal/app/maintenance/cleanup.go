package maintenance

import (
	"context"
	"errors"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/internal/tasks"
	"github.com/jobportal/recruitment/pkg/logger"
)

const (
	defaultReportSpec  = "0 1 * * *"
	defaultSessionSpec = "@hourly"
	defaultPurgeSpec   = "*/15 * * * *"
)

// Submitter queues background work. *tasks.Dispatcher satisfies it.
type Submitter interface {
	Submit(task tasks.Task) (*tasks.Handle, error)
}

// SessionPruner drops dangling ids from per-user session indexes.
type SessionPruner interface {
	PruneAll(ctx context.Context) int
}

// ExpiredPurger removes stale rows from the database cache backend.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Schedules holds cron specs. A blank spec disables the job.
type Schedules struct {
	DailyReport  string
	SessionPrune string
	CachePurge   string
}

// DefaultSchedules runs the report at 01:00, prunes hourly and purges every 15 minutes.
func DefaultSchedules() Schedules {
	return Schedules{
		DailyReport:  defaultReportSpec,
		SessionPrune: defaultSessionSpec,
		CachePurge:   defaultPurgeSpec,
	}
}

// Scheduler runs periodic housekeeping: the daily report, session index
// pruning and database cache purging.
type Scheduler struct {
	submitter Submitter
	reports   tasks.ReportGenerator
	sessions  SessionPruner
	purger    ExpiredPurger
	schedules Schedules
	cron      *cron.Cron
	log       *zap.Logger
}

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithSchedules replaces the default cron specs.
func WithSchedules(schedules Schedules) Option {
	return func(s *Scheduler) {
		s.schedules = schedules
	}
}

// WithSessionPruner enables hourly session index pruning.
func WithSessionPruner(p SessionPruner) Option {
	return func(s *Scheduler) {
		s.sessions = p
	}
}

// WithCachePurger enables purging of the database cache backend.
func WithCachePurger(p ExpiredPurger) Option {
	return func(s *Scheduler) {
		s.purger = p
	}
}

// NewScheduler builds a Scheduler. The daily report is queued on submitter
// so it shows up in the task registry like any other background task.
func NewScheduler(submitter Submitter, reports tasks.ReportGenerator, opts ...Option) *Scheduler {
	s := &Scheduler{
		submitter: submitter,
		reports:   reports,
		schedules: DefaultSchedules(),
		log:       logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Start registers the enabled jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	jobs := 0

	if s.submitter != nil && s.reports != nil && enabled(s.schedules.DailyReport) {
		if _, err := s.cron.AddFunc(s.schedules.DailyReport, func() {
			if err := s.queueDailyReport(); err != nil {
				s.log.Warn("daily report not queued", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if s.sessions != nil && enabled(s.schedules.SessionPrune) {
		if _, err := s.cron.AddFunc(s.schedules.SessionPrune, func() {
			if removed := s.sessions.PruneAll(context.Background()); removed > 0 {
				s.log.Info("pruned session indexes", zap.Int("removed", removed))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if s.purger != nil && enabled(s.schedules.CachePurge) {
		if _, err := s.cron.AddFunc(s.schedules.CachePurge, func() {
			if _, err := s.purger.PurgeExpired(context.Background()); err != nil {
				s.log.Warn("cache purge failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		return nil
	}
	s.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes every configured job sequentially. The daily report runs
// inline instead of through the dispatcher.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if s.reports != nil {
		if _, err := s.reports.GenerateDailyReport(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if s.sessions != nil {
		s.sessions.PruneAll(ctx)
	}

	if s.purger != nil {
		if _, err := s.purger.PurgeExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

func (s *Scheduler) queueDailyReport() error {
	if s.submitter == nil || s.reports == nil {
		return errors.New("maintenance: report dependencies missing")
	}
	handle, err := s.submitter.Submit(tasks.DailyReport(s.reports))
	if err != nil {
		return err
	}
	s.log.Info("daily report queued", zap.String("task_id", handle.ID))
	return nil
}

func enabled(spec string) bool {
	return strings.TrimSpace(spec) != ""
}
