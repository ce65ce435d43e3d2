package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/api"
	"github.com/jobportal/recruitment/internal/app"
	"github.com/jobportal/recruitment/internal/app/maintenance"
	iauth "github.com/jobportal/recruitment/internal/auth"
	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/database"
	"github.com/jobportal/recruitment/internal/services"
	"github.com/jobportal/recruitment/internal/tasks"
	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/mail"
)

const dispatcherDrainTimeout = 10 * time.Second

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Store     cache.Store
	Cache     *cache.Facade
	Sessions  *iauth.SessionStore
	Tasks     *tasks.Dispatcher
	Scheduler *maintenance.Scheduler
	Router    *gin.Engine

	stopTasks context.CancelFunc
}

// bootstrapRuntime initialises the database, cache, background workers and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	stack.Store = openCacheStore(ctx, cfg.Cache, stack.DB, log)
	stack.Cache = cache.NewFacade(stack.Store)

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.Sessions = iauth.NewSessionStore(stack.Cache, cfg.Auth.SessionOptions()...)
	bus := EventBus.New()

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}
	mailer = mail.Throttled(mailer, cfg.Email.Limiter())

	stack.Tasks = tasks.NewDispatcher(cfg.Tasks.DispatcherConfig())
	taskCtx, cancel := context.WithCancel(context.Background())
	stack.stopTasks = cancel
	stack.Tasks.Start(taskCtx)

	notifier := tasks.NewNotifier(stack.Tasks, mailer, stack.Cache, cfg.NotifierConfig())
	if err := notifier.Subscribe(bus); err != nil {
		return nil, err
	}

	analytics, err := services.NewAnalyticsService(stack.DB, stack.Cache)
	if err != nil {
		return nil, err
	}

	schedulerOpts := []maintenance.Option{
		maintenance.WithSchedules(cfg.Maintenance.Schedules()),
		maintenance.WithSessionPruner(stack.Sessions),
	}
	if dbStore, ok := stack.Store.(*cache.DatabaseStore); ok {
		schedulerOpts = append(schedulerOpts, maintenance.WithCachePurger(dbStore))
	}
	stack.Scheduler = maintenance.NewScheduler(stack.Tasks, analytics, schedulerOpts...)
	if err := stack.Scheduler.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		DB:       stack.DB,
		Cache:    stack.Cache,
		Counter:  stack.Store,
		JWT:      jwtSvc,
		Sessions: stack.Sessions,
		Bus:      bus,
		Tasks:    stack.Tasks,
		Config:   cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops the scheduler, drains queued tasks and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Scheduler != nil {
		<-s.Scheduler.Stop().Done()
	}

	if s.Tasks != nil {
		drainCtx, cancel := context.WithTimeout(ctx, dispatcherDrainTimeout)
		if err := s.Tasks.Stop(drainCtx); err != nil {
			log.Warn("task dispatcher did not drain", zap.Error(err))
		}
		cancel()
	}
	if s.stopTasks != nil {
		s.stopTasks()
	}

	if closer, ok := s.Store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn("cache shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

// openCacheStore selects the configured backend. An unreachable Redis falls
// back to the in-process store so the portal keeps serving from the database.
func openCacheStore(ctx context.Context, cfg app.CacheConfig, db *gorm.DB, log *zap.Logger) cache.Store {
	switch cfg.BackendName() {
	case app.CacheBackendMemory:
		log.Info("cache backend selected", zap.String("backend", app.CacheBackendMemory))
		return cache.NewMemoryStore(cfg.MemoryCleanupInterval())
	case app.CacheBackendDatabase:
		log.Info("cache backend selected", zap.String("backend", app.CacheBackendDatabase))
		return cache.NewDatabaseStore(db)
	}

	store, err := cache.NewRedisStore(ctx, cfg.RedisClientConfig())
	if err != nil {
		log.Warn("redis unavailable; falling back to in-memory cache", zap.Error(err))
		return cache.NewMemoryStore(cfg.MemoryCleanupInterval())
	}
	log.Info("redis connected", zap.String("addr", cfg.Redis.Address))
	return store
}

func initialiseDatabase(ctx context.Context, cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.OpenContext(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	admin, err := cfg.Auth.AdminSeed()
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("prepare admin account: %w", err)
	}

	seed := database.Seed{Admin: admin, Agencies: database.DefaultAgencies()}
	if err := database.AutoMigrateAndSeed(db, seed); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected",
		zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))),
		zap.Bool("admin_seeded", admin != nil),
	)
	return db, nil
}
