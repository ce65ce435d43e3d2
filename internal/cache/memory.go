package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in-process. It is meant for single-node
// deployments and tests; nothing is shared between processes.
type MemoryStore struct {
	items *gocache.Cache
	// mu serialises read-modify-write counter updates.
	mu sync.Mutex
}

// NewMemoryStore creates a store whose expired items are swept every cleanup interval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanup)}
}

func (s *MemoryStore) IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s == nil || s.items == nil {
		return 0, 0, ErrStoreUnavailable
	}
	if window <= 0 {
		window = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, expires, found := s.items.GetWithExpiration(key)
	if !found {
		s.items.Set(key, int64(1), window)
		return 1, window, nil
	}

	count, ok := asCounter(current)
	if !ok {
		count = 0
	}
	count++

	ttl := window
	if !expires.IsZero() {
		ttl = time.Until(expires)
		if ttl <= 0 {
			ttl = window
		}
	}
	s.items.Set(key, count, ttl)
	return count, ttl, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil || s.items == nil {
		return ErrStoreUnavailable
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.items == nil {
		return nil, false, ErrStoreUnavailable
	}
	value, found := s.items.Get(key)
	if !found {
		return nil, false, nil
	}
	switch v := value.(type) {
	case []byte:
		return append([]byte(nil), v...), true, nil
	case int64:
		return []byte(strconv.FormatInt(v, 10)), true, nil
	default:
		return nil, false, nil
	}
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.items == nil {
		return ErrStoreUnavailable
	}
	for _, key := range keys {
		s.items.Delete(key)
	}
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if s == nil || s.items == nil {
		return false, ErrStoreUnavailable
	}
	_, found := s.items.Get(key)
	return found, nil
}

// Flush drops every entry.
func (s *MemoryStore) Flush() {
	if s != nil && s.items != nil {
		s.items.Flush()
	}
}

func asCounter(v any) (int64, bool) {
	switch c := v.(type) {
	case int64:
		return c, true
	case []byte:
		n, err := strconv.ParseInt(string(c), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
