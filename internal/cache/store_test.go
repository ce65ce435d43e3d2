package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/database/testutil"
)

type storeFactory struct {
	name string
	new  func(t *testing.T) Store
}

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Address: srv.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func backends() []storeFactory {
	return []storeFactory{
		{name: "redis", new: func(t *testing.T) Store {
			store, _ := newMiniredisStore(t)
			return store
		}},
		{name: "memory", new: func(t *testing.T) Store {
			return NewMemoryStore(time.Minute)
		}},
		{name: "database", new: func(t *testing.T) Store {
			return NewDatabaseStore(testutil.MustOpenTestDB(t, testutil.WithAutoMigrate()))
		}},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for _, backend := range backends() {
		t.Run(backend.name, func(t *testing.T) {
			store := backend.new(t)

			_, found, err := store.Get(ctx, "jobs:detail:missing")
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, store.Set(ctx, "jobs:detail:1", []byte(`{"title":"Chef"}`), time.Minute))
			value, found, err := store.Get(ctx, "jobs:detail:1")
			require.NoError(t, err)
			require.True(t, found)
			require.JSONEq(t, `{"title":"Chef"}`, string(value))

			// Overwrite wins.
			require.NoError(t, store.Set(ctx, "jobs:detail:1", []byte(`{"title":"Cook"}`), time.Minute))
			value, _, err = store.Get(ctx, "jobs:detail:1")
			require.NoError(t, err)
			require.JSONEq(t, `{"title":"Cook"}`, string(value))

			exists, err := store.Exists(ctx, "jobs:detail:1")
			require.NoError(t, err)
			require.True(t, exists)

			require.NoError(t, store.Delete(ctx, "jobs:detail:1", "jobs:detail:absent"))
			exists, err = store.Exists(ctx, "jobs:detail:1")
			require.NoError(t, err)
			require.False(t, exists)

			require.NoError(t, store.Delete(ctx))
		})
	}
}

func TestStoreIncrement(t *testing.T) {
	ctx := context.Background()

	for _, backend := range backends() {
		t.Run(backend.name, func(t *testing.T) {
			store := backend.new(t)

			for want := int64(1); want <= 3; want++ {
				count, ttl, err := store.IncrementWithTTL(ctx, "jobs:views:42", time.Hour)
				require.NoError(t, err)
				require.Equal(t, want, count)
				require.Greater(t, ttl, time.Duration(0))
				require.LessOrEqual(t, ttl, time.Hour)
			}

			raw, found, err := store.Get(ctx, "jobs:views:42")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "3", string(raw))
		})
	}
}

func TestRedisStorePrefixesKeysAndExpires(t *testing.T) {
	store, srv := newMiniredisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "session:abc", []byte(`{}`), 2*time.Second))
	require.True(t, srv.Exists("test:session:abc"))

	srv.FastForward(3 * time.Second)
	_, found, err := store.Get(ctx, "session:abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisStoreReportsBackendErrors(t *testing.T) {
	store, srv := newMiniredisStore(t)
	srv.Close()

	_, _, err := store.Get(context.Background(), "jobs:list:0:100")
	require.Error(t, err)
	require.Error(t, store.Set(context.Background(), "k", []byte("1"), time.Second))
}

func TestNewRedisStoreFailsFast(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{})
	require.ErrorContains(t, err, "address is required")

	_, err = NewRedisStore(context.Background(), RedisConfig{Address: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
}

func TestRedisStoreFromExistingClient(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := NewRedisStoreFromClient(client, "")
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.Set(context.Background(), "plain", []byte("1"), 0))
	require.True(t, srv.Exists("plain"))
}

func TestDatabaseStoreExpiryAndPurge(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte(`1`), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte(`2`), 0))

	now = now.Add(2 * time.Minute)
	_, found, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, found)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, found, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	require.True(t, found)
}

func TestDatabaseStoreIncrementRestartsAfterExpiry(t *testing.T) {
	store := NewDatabaseStore(testutil.MustOpenTestDB(t, testutil.WithAutoMigrate()))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	count, _, err := store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, ttl, err := store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Equal(t, time.Minute, ttl)

	now = now.Add(5 * time.Minute)
	count, _, err = store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestNilStoresReportUnavailable(t *testing.T) {
	var (
		mem *MemoryStore
		db  *DatabaseStore
		rs  *RedisStore
	)
	for _, s := range []Store{mem, db, rs} {
		_, _, err := s.Get(context.Background(), "k")
		require.ErrorIs(t, err, ErrStoreUnavailable)
	}
	require.Nil(t, NewDatabaseStore(nil))
}
