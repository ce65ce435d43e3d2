package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/metrics"
)

var jsonNull = []byte("null")

// Facade is the JSON cache used by services. It never returns errors: every
// backend failure degrades to a miss (or false) after being logged and counted.
// There is no locking, so concurrent writers to one key are last-write-wins.
type Facade struct {
	store Store
	log   *zap.Logger
}

// NewFacade wraps store. A nil store yields a facade where every call misses.
func NewFacade(store Store) *Facade {
	return &Facade{store: store, log: logger.WithModule("cache")}
}

// Get decodes the cached JSON under key into dest. It reports false on a miss,
// a backend error, an undecodable payload or a stored JSON null.
func (f *Facade) Get(ctx context.Context, key string, dest any) bool {
	if f == nil || f.store == nil {
		return false
	}

	raw, found, err := f.store.Get(ctx, key)
	if err != nil {
		f.degrade("get", key, err)
		return false
	}
	if !found || len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		f.degrade("decode", key, err)
		return false
	}

	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

// Set encodes value as JSON and stores it with ttl.
func (f *Facade) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if f == nil || f.store == nil {
		return false
	}

	payload, err := json.Marshal(value)
	if err != nil {
		f.degrade("encode", key, err)
		return false
	}
	if err := f.store.Set(ctx, key, payload, ttl); err != nil {
		f.degrade("set", key, err)
		return false
	}
	return true
}

// Delete removes keys; deleting absent keys succeeds.
func (f *Facade) Delete(ctx context.Context, keys ...string) bool {
	if f == nil || f.store == nil {
		return false
	}
	if len(keys) == 0 {
		return true
	}
	if err := f.store.Delete(ctx, keys...); err != nil {
		f.degrade("delete", keys[0], err)
		return false
	}
	return true
}

// Exists reports whether key holds a live entry.
func (f *Facade) Exists(ctx context.Context, key string) bool {
	if f == nil || f.store == nil {
		return false
	}
	ok, err := f.store.Exists(ctx, key)
	if err != nil {
		f.degrade("exists", key, err)
		return false
	}
	return ok
}

// Increment bumps the counter at key; ttl applies when the counter is created.
func (f *Facade) Increment(ctx context.Context, key string, ttl time.Duration) (int64, bool) {
	if f == nil || f.store == nil {
		return 0, false
	}
	n, _, err := f.store.IncrementWithTTL(ctx, key, ttl)
	if err != nil {
		f.degrade("incr", key, err)
		return 0, false
	}
	return n, true
}

// Counter reads an integer written by Increment. Absent counters read as zero.
func (f *Facade) Counter(ctx context.Context, key string) int64 {
	var n int64
	if !f.Get(ctx, key, &n) {
		return 0
	}
	return n
}

func (f *Facade) degrade(op, key string, err error) {
	metrics.CacheErrors.WithLabelValues(op).Inc()
	f.log.Warn("cache operation degraded",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
