package api

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/app"
	iauth "github.com/jobportal/recruitment/internal/auth"
	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/internal/handlers"
	"github.com/jobportal/recruitment/internal/middleware"
	"github.com/jobportal/recruitment/internal/services"
)

// Dependencies are the process-wide collaborators the HTTP surface is built on.
type Dependencies struct {
	DB       *gorm.DB
	Cache    *cache.Facade
	Counter  middleware.RateCounter
	JWT      *iauth.JWTService
	Sessions *iauth.SessionStore
	Bus      EventBus.Bus
	Tasks    handlers.TaskQueue
	Config   *app.Config
}

func (d Dependencies) validate() error {
	switch {
	case d.DB == nil:
		return fmt.Errorf("database handle must be provided")
	case d.JWT == nil:
		return fmt.Errorf("jwt service must be provided")
	case d.Sessions == nil:
		return fmt.Errorf("session store must be provided")
	case d.Tasks == nil:
		return fmt.Errorf("task queue must be provided")
	case d.Config == nil:
		return fmt.Errorf("config must be provided")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config

	h, err := buildHandlers(deps)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowedOrigins, cfg.Server.CORS.MaxAge))

	registerHealthRoutes(r, deps.DB, deps.Cache)
	registerMetricsRoute(r, cfg.Monitoring)

	// Public submissions share one per-IP throttle.
	throttle := middleware.RateLimit(deps.Counter, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)
	requireAuth := middleware.Auth(deps.JWT)

	api := r.Group("/api")
	registerAuthRoutes(api, h.auth, throttle, requireAuth)
	registerJobRoutes(api, h.jobs, requireAuth)
	registerApplicationRoutes(api, h.applications, throttle, requireAuth)
	registerInquiryRoutes(api, h.inquiries, throttle, requireAuth)
	registerContactRoutes(api, h.contacts, throttle, requireAuth)
	registerSessionRoutes(api, h.sessions)
	registerAgencyRoutes(api, h.agencies, requireAuth)
	registerReportRoutes(api, h.reports, requireAuth)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

type routeHandlers struct {
	auth         *handlers.AuthHandler
	jobs         *handlers.JobHandler
	applications *handlers.ApplicationHandler
	inquiries    *handlers.InquiryHandler
	contacts     *handlers.ContactHandler
	sessions     *handlers.SessionHandler
	agencies     *handlers.AgencyHandler
	reports      *handlers.ReportHandler
}

func buildHandlers(deps Dependencies) (*routeHandlers, error) {
	authSvc, err := services.NewAuthService(deps.DB, deps.JWT)
	if err != nil {
		return nil, err
	}
	jobSvc, err := services.NewJobService(deps.DB, deps.Cache)
	if err != nil {
		return nil, err
	}
	applicationSvc, err := services.NewApplicationService(deps.DB, deps.Bus)
	if err != nil {
		return nil, err
	}
	inquirySvc, err := services.NewInquiryService(deps.DB, deps.Bus)
	if err != nil {
		return nil, err
	}
	contactSvc, err := services.NewContactService(deps.DB)
	if err != nil {
		return nil, err
	}
	agencySvc, err := services.NewAgencyService(deps.DB)
	if err != nil {
		return nil, err
	}
	analyticsSvc, err := services.NewAnalyticsService(deps.DB, deps.Cache)
	if err != nil {
		return nil, err
	}

	return &routeHandlers{
		auth:         handlers.NewAuthHandler(authSvc),
		jobs:         handlers.NewJobHandler(jobSvc),
		applications: handlers.NewApplicationHandler(applicationSvc),
		inquiries:    handlers.NewInquiryHandler(inquirySvc),
		contacts:     handlers.NewContactHandler(contactSvc),
		sessions:     handlers.NewSessionHandler(deps.Sessions),
		agencies:     handlers.NewAgencyHandler(agencySvc, analyticsSvc),
		reports:      handlers.NewReportHandler(analyticsSvc, deps.Tasks),
	}, nil
}
