package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/pkg/errors"
	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/response"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateCounter is the fixed-window counter the limiter needs. Every
// cache.Store backend satisfies it.
type RateCounter interface {
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit caps requests per (client IP, route) within a fixed window. The
// counter lives in the shared cache so limits hold across restarts of a
// single node. Counter failures let the request through.
func RateLimit(counter RateCounter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := rateLimitKeyPrefix + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()
		count, ttl, err := counter.IncrementWithTTL(c.Request.Context(), key, window)
		if err != nil {
			logger.WithModule("http").Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > int64(maxRequests) {
			response.Error(c, errors.ErrRateLimit)
			return
		}

		c.Next()
	}
}
