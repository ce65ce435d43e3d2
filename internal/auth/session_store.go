package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/internal/cache"
	"github.com/jobportal/recruitment/pkg/logger"
)

const (
	// SessionTTL is both the session lifetime and the user index lifetime.
	SessionTTL = 24 * time.Hour

	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

var (
	// ErrSessionNotStored is returned when the cache refused the session write.
	ErrSessionNotStored = errors.New("session store: session could not be stored")
	// ErrInvalidUserID rejects blank owners.
	ErrInvalidUserID = errors.New("session store: user id is required")
)

// Session is a cache-resident login session.
type Session struct {
	ID           string         `json:"session_id"`
	UserID       string         `json:"user_id"`
	UserData     map[string]any `json:"user_data"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
}

// SessionStore keeps sessions under session:<id> and a per-user index of
// session ids under user_sessions:<userID>.
//
// The two keys are written separately, so the index may name sessions that
// have expired or been deleted. Readers skip such ids; PruneUser rewrites the
// index without them.
type SessionStore struct {
	cache *cache.Facade
	// owners remembers which users created sessions in this process so the
	// hourly prune can visit their indexes without scanning the keyspace.
	owners *gocache.Cache
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	log    *zap.Logger
}

// SessionOption customises a SessionStore.
type SessionOption func(*SessionStore)

// WithSessionClock overrides the time source.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL overrides the 24h lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewSessionStore builds a store on top of the shared cache facade.
func NewSessionStore(c *cache.Facade, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		cache: c,
		ttl:   SessionTTL,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		log:   logger.WithModule("sessions"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.owners = gocache.New(s.ttl, s.ttl)
	return s
}

// Create stores a new session for userID and appends it to the user's index.
func (s *SessionStore) Create(ctx context.Context, userID string, data map[string]any) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrInvalidUserID
	}
	if data == nil {
		data = map[string]any{}
	}

	now := s.now()
	session := Session{
		ID:           s.newID(),
		UserID:       userID,
		UserData:     data,
		CreatedAt:    now,
		LastAccessed: now,
	}
	if !s.cache.Set(ctx, sessionKey(session.ID), session, s.ttl) {
		return "", ErrSessionNotStored
	}

	ids := s.ListForUser(ctx, userID)
	ids = append(ids, session.ID)
	if !s.cache.Set(ctx, userIndexKey(userID), ids, s.ttl) {
		s.log.Warn("session index not updated", zap.String("user_id", userID), zap.String("session_id", session.ID))
	}
	s.owners.SetDefault(userID, struct{}{})

	return session.ID, nil
}

// Get returns the session and slides its expiry forward.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, bool) {
	session, ok := s.peek(ctx, id)
	if !ok {
		return nil, false
	}

	session.LastAccessed = s.now()
	s.cache.Set(ctx, sessionKey(session.ID), session, s.ttl)
	return session, true
}

// Delete removes the session, then its id from the owner's index. It reports
// false when the session did not exist or could not be removed.
func (s *SessionStore) Delete(ctx context.Context, id string) bool {
	session, ok := s.peek(ctx, id)
	if !ok {
		return false
	}

	if !s.cache.Delete(ctx, sessionKey(session.ID)) {
		return false
	}

	ids := s.ListForUser(ctx, session.UserID)
	if remaining := lo.Without(ids, session.ID); len(remaining) != len(ids) {
		s.writeIndex(ctx, session.UserID, remaining)
	}
	return true
}

// ListForUser returns the raw index, which may include dangling ids.
func (s *SessionStore) ListForUser(ctx context.Context, userID string) []string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []string{}
	}
	var ids []string
	if !s.cache.Get(ctx, userIndexKey(userID), &ids) {
		return []string{}
	}
	return ids
}

// ActiveForUser returns only the indexed sessions that still exist.
func (s *SessionStore) ActiveForUser(ctx context.Context, userID string) []string {
	return lo.Filter(s.ListForUser(ctx, userID), func(id string, _ int) bool {
		return s.cache.Exists(ctx, sessionKey(id))
	})
}

// DeleteAllForUser removes every indexed session and the index itself.
func (s *SessionStore) DeleteAllForUser(ctx context.Context, userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}
	ids := s.ListForUser(ctx, userID)
	keys := lo.Map(ids, func(id string, _ int) string { return sessionKey(id) })
	if len(keys) > 0 {
		s.cache.Delete(ctx, keys...)
	}
	return s.cache.Delete(ctx, userIndexKey(userID))
}

// PruneUser drops dangling ids from the user's index and returns how many were removed.
func (s *SessionStore) PruneUser(ctx context.Context, userID string) int {
	userID = strings.TrimSpace(userID)
	ids := s.ListForUser(ctx, userID)
	if len(ids) == 0 {
		return 0
	}
	active := s.ActiveForUser(ctx, userID)
	removed := len(ids) - len(active)
	if removed == 0 {
		return 0
	}
	if len(active) == 0 {
		s.cache.Delete(ctx, userIndexKey(userID))
	} else {
		s.writeIndex(ctx, userID, active)
	}
	return removed
}

// PruneAll prunes the index of every user seen by this process within the
// session lifetime and returns the total number of dangling ids removed.
func (s *SessionStore) PruneAll(ctx context.Context) int {
	total := 0
	for userID := range s.owners.Items() {
		if err := ctx.Err(); err != nil {
			break
		}
		total += s.PruneUser(ctx, userID)
	}
	return total
}

func (s *SessionStore) peek(ctx context.Context, id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	var session Session
	if !s.cache.Get(ctx, sessionKey(id), &session) {
		return nil, false
	}
	session.ID = id
	return &session, true
}

func (s *SessionStore) writeIndex(ctx context.Context, userID string, ids []string) {
	if !s.cache.Set(ctx, userIndexKey(userID), ids, s.ttl) {
		s.log.Warn("session index not rewritten", zap.String("user_id", userID))
	}
}

func sessionKey(id string) string       { return sessionKeyPrefix + id }
func userIndexKey(userID string) string { return userSessionKeyPrefix + userID }
