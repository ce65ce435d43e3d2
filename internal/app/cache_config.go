package app

import (
	"strings"
	"time"

	"github.com/jobportal/recruitment/internal/cache"
)

const (
	CacheBackendRedis    = "redis"
	CacheBackendMemory   = "memory"
	CacheBackendDatabase = "database"
)

// BackendName normalises the configured backend, defaulting to redis.
func (c CacheConfig) BackendName() string {
	switch backend := strings.ToLower(strings.TrimSpace(c.Backend)); backend {
	case CacheBackendMemory, CacheBackendDatabase:
		return backend
	default:
		return CacheBackendRedis
	}
}

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   c.Redis.Prefix,
	}
}

// MemoryCleanupInterval is the sweep interval for the in-process backend.
func (c CacheConfig) MemoryCleanupInterval() time.Duration {
	if c.Memory.CleanupInterval <= 0 {
		return time.Minute
	}
	return c.Memory.CleanupInterval
}
