package data

import (
	"context"
	"testing"
	"time"

	"github.com/giraone/jobadmin/internal/core"
	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ core.CacheRepository = (*RedisCacheRepo)(nil)

func TestRedisCacheRepo_Set_Get_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		key := "test:key:1"
		value := []byte("test value")
		ttl := 5 * time.Minute

		require.NoError(t, repo.Set(ctx, key, value, ttl))

		result, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, result)

		actualTTL := client.TTL(ctx, key).Val()
		assert.True(t, actualTTL > 0 && actualTTL <= ttl)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		result, err := repo.Get(ctx, "non:existent:key")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("delete existing and missing key", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "test:key:2", []byte("x"), time.Minute))

		deleted, err := repo.Delete(ctx, "test:key:2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "test:key:2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_BacksProcessOptionsCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	cache := core.NewProcessOptionsCache(core.ProcessOptionsCacheOptions{
		Cache: NewRedisCacheRepo(client),
		TTL:   time.Minute,
	})
	ctx := context.Background()

	loads := 0
	load := func(context.Context) ([]model.Process, error) {
		loads++
		return []model.Process{*testutil.NewProcess().WithID("p1").Build()}, nil
	}

	first, err := cache.Get(ctx, load)
	require.NoError(t, err)
	second, err := cache.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)

	cache.Invalidate(ctx)
	_, err = cache.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	require.ErrorIs(t, repo.Set(ctx, "", nil, 0), errEmptyKey)
	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.Delete(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
}
