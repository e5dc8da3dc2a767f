package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknotes/internal/domain/editor"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSessionStore(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "s1", editor.RoleGuest, time.Hour))
	require.NoError(t, store.Put(ctx, "s1", editor.RoleEditor, time.Hour))

	role, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, editor.RoleEditor, role)
	assert.Equal(t, time.Hour, mr.TTL("booknotes:session:s1"))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", editor.RoleEditor, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Unavailable(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSessionStore(client)
	mr.Close()

	_, _, err := store.Get(context.Background(), "s1")
	assert.Error(t, err)
}

type entry struct {
	Title  string
	Rating int
}

func TestViewCache(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewViewCache(client, time.Minute)
	ctx := context.Background()

	var got []entry
	hit, err := cache.Get(ctx, "top:3", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	want := []entry{{"Dune", 5}, {"Emma", 4}}
	require.NoError(t, cache.Set(ctx, "top:3", gen, want))
	require.NoError(t, cache.Set(ctx, "recent:3", gen, want[:1]))
	require.NoError(t, client.Set(ctx, "booknotes:session:keep", "x", 0).Err())

	hit, err = cache.Get(ctx, "top:3", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
	assert.Equal(t, time.Minute, mr.TTL("booknotes:view:top:3"))

	require.NoError(t, cache.InvalidateAll(ctx))
	hit, err = cache.Get(ctx, "top:3", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("booknotes:view:recent:3"))
	assert.True(t, mr.Exists("booknotes:session:keep"))

	// a value loaded before the invalidation is not stored
	require.NoError(t, cache.Set(ctx, "top:3", gen, want))
	assert.False(t, mr.Exists("booknotes:view:top:3"))

	next, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	require.NoError(t, cache.Set(ctx, "top:3", next, want))
	assert.True(t, mr.Exists("booknotes:view:top:3"))
}
