package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/cache"
)

type brokenCounter struct{}

func (brokenCounter) IncrementWithTTL(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("cache down")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(cache.NewMemoryStore(time.Minute), 2, 100*time.Millisecond))
	r.POST("/api/contact-inquiries", func(c *gin.Context) { c.String(http.StatusCreated, "ok") })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact-inquiries", nil))
		return w
	}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, send().Code)
	}

	limited := send()
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, http.StatusCreated, send().Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(brokenCounter{}, 1, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
