package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-board/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResourceListCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewResourceListCache(client, ttl), mr
}

func mustSetList(t *testing.T, c *ResourceListCache, resources []model.Resource) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	stored, err := c.SetList(ctx, gen, resources)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestResourceListCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, hit, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	want := []model.Resource{{
		ID:        "r1",
		Title:     "Clinic",
		Category:  model.CategoryHealthcare,
		PostedBy:  "u1",
		CreatedAt: created,
		Owner:     &model.Owner{ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	mustSetList(t, c, want)

	got, hit, err := c.GetList(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "Clinic", got[0].Title)
	assert.True(t, got[0].CreatedAt.Equal(created))
	require.NotNil(t, got[0].Owner)
	assert.Equal(t, "Alice", got[0].Owner.Name)
}

func TestResourceListCache_EmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	mustSetList(t, c, nil)
	got, hit, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestResourceListCache_InvalidateAndExpire(t *testing.T) {
	c, mr := newTestCache(t, 10*time.Second)
	ctx := context.Background()

	mustSetList(t, c, []model.Resource{{ID: "r1"}})
	assert.Equal(t, 10*time.Second, mr.TTL(ResourceListKey))

	require.NoError(t, c.Invalidate(ctx))
	_, hit, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	mustSetList(t, c, []model.Resource{{ID: "r2"}})
	mr.FastForward(11 * time.Second)
	_, hit, err = c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResourceListCache_SetListAfterInvalidateIsDropped(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	// A write lands between the store read and the cache fill.
	require.NoError(t, c.Invalidate(ctx))

	stored, err := c.SetList(ctx, gen, []model.Resource{{ID: "stale"}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(ResourceListKey))

	_, hit, err := c.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
	stored, err = c.SetList(ctx, next, []model.Resource{{ID: "fresh"}})
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestResourceListCache_CorruptPayload(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set(ResourceListKey, "{not json"))
	_, hit, err := c.GetList(context.Background())
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNewResourceListCache_DefaultTTL(t *testing.T) {
	c := NewResourceListCache(nil, 0)
	assert.Equal(t, 30*time.Second, c.ttl)
}
