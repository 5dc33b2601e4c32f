package profilestore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xabinapal/farmhand/internal/profile"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestNewRedisStore(t *testing.T) {
	t.Run("missing address", func(t *testing.T) {
		_, err := NewRedisStore(context.Background(), RedisConfig{})
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisStore(context.Background(), RedisConfig{Address: addr})
		assert.ErrorIs(t, err, profile.ErrPersistence)
	})
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	p := sampleProfile()

	require.NoError(t, store.Put(ctx, "farm", p))

	got, err := store.Get(ctx, "farm")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	assert.True(t, mr.Exists("farmhand:profile:farm"))
	members, err := mr.Members(KeyProfileNames)
	require.NoError(t, err)
	assert.Equal(t, []string{"farm"}, members)
}

func TestRedisStore_Create(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Create(ctx, "farm", profile.Default()))
	assert.ErrorIs(t, store.Create(ctx, "farm", sampleProfile()), profile.ErrDuplicateName)

	got, err := store.Get(ctx, "farm")
	require.NoError(t, err)
	assert.Equal(t, profile.Default(), got)
}

func TestRedisStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Put(ctx, "a", sampleProfile()))
	require.NoError(t, store.Put(ctx, "b", sampleProfile()))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.False(t, mr.Exists("farmhand:profile:a"))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	assert.ErrorIs(t, store.Delete(ctx, "a"), profile.ErrNotFound)
}

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	require.NoError(t, mr.Set("farmhand:profile:broken", "market_timing: [oops"))
	_, err = store.Get(ctx, "broken")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	_, err = store.Get(ctx, "bad/name")
	assert.ErrorIs(t, err, profile.ErrInvalidName)
}

func TestRedisStore_ServerFailure(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := NewRedisStoreFromClient(client)
	t.Cleanup(func() { _ = store.Close() })

	mr.SetError("LOADING")
	_, err := store.List(ctx)
	assert.ErrorIs(t, err, profile.ErrPersistence)
	assert.ErrorIs(t, store.Put(ctx, "farm", sampleProfile()), profile.ErrPersistence)
}
