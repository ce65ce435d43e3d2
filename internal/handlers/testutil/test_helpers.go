package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jobportal/recruitment/internal/api"
	"github.com/jobportal/recruitment/internal/app"
	iauth "github.com/jobportal/recruitment/internal/auth"
	"github.com/jobportal/recruitment/internal/cache"
	sharedtestutil "github.com/jobportal/recruitment/internal/database/testutil"
	"github.com/jobportal/recruitment/internal/models"
	"github.com/jobportal/recruitment/internal/tasks"
	"github.com/jobportal/recruitment/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database
// and an in-process cache for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	JWT      *iauth.JWTService
	Cache    *cache.Facade
	Store    *cache.MemoryStore
	Sessions *iauth.SessionStore
	Bus      EventBus.Bus
	Tasks    *tasks.Dispatcher
}

// EnvOption customises the config a test environment is built with.
type EnvOption func(*app.Config)

// WithRateLimit overrides the public submission throttle.
func WithRateLimit(requests int, window time.Duration) EnvOption {
	return func(cfg *app.Config) {
		cfg.Server.RateLimit = app.RateLimitConfig{Requests: requests, Window: window}
	}
}

// NewEnv provisions a fresh handler test environment with migrations and the
// default agencies applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-suite-super-secret-key-32-bytes!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	store := cache.NewMemoryStore(time.Minute)
	facade := cache.NewFacade(store)
	sessions := iauth.NewSessionStore(facade)
	bus := EventBus.New()

	dispatcher := tasks.NewDispatcher(tasks.Config{Workers: 1, QueueSize: 16})
	dispatcher.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Stop(ctx)
	})

	cfg := &app.Config{
		Server: app.ServerConfig{
			RateLimit: app.RateLimitConfig{Requests: 1000, Window: time.Minute},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:       db,
		Cache:    facade,
		Counter:  store,
		JWT:      jwtSvc,
		Sessions: sessions,
		Bus:      bus,
		Tasks:    dispatcher,
		Config:   cfg,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		JWT:      jwtSvc,
		Cache:    facade,
		Store:    store,
		Sessions: sessions,
		Bus:      bus,
		Tasks:    dispatcher,
	}
}

// CreateAdmin inserts an admin account with a random email and returns it.
func (e *Env) CreateAdmin(password string) *models.User {
	e.T.Helper()

	hashed, err := iauth.HashPassword(password)
	require.NoError(e.T, err)

	user := &models.User{
		Name:         "Test Admin",
		Email:        "admin-" + uuid.NewString() + "@portal.example",
		Role:         models.RoleAdmin,
		PasswordHash: hashed,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// TokenResult mirrors the handler login response payload.
type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Login exchanges credentials for a bearer token through POST /api/auth/token.
func (e *Env) Login(email, password string) TokenResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/token", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result TokenResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.AccessToken)
	require.Equal(e.T, "bearer", result.TokenType)
	return result
}

// AdminToken creates a fresh admin and returns a bearer token for it.
func (e *Env) AdminToken() string {
	e.T.Helper()
	admin := e.CreateAdmin("admin-password")
	return e.Login(admin.Email, "admin-password").AccessToken
}

// FirstAgency returns one of the seeded agencies.
func (e *Env) FirstAgency() models.Agency {
	e.T.Helper()
	var agency models.Agency
	require.NoError(e.T, e.DB.Order("name").First(&agency).Error)
	return agency
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON
// encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	buf := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
