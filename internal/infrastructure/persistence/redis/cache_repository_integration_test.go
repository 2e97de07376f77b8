//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/cache"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
	"github.com/alchemorsel/nutrimatch/test/testutils"
)

func TestCacheRepository_Redis(t *testing.T) {
	cfg := testutils.SetupRedis(t)
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	client, err := cache.NewRedisClient(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repo := NewCacheRepository(client, cfg.KeyPrefix, logger)
	require.NoError(t, repo.Ping(ctx))

	_, err = repo.Get(ctx, "absent")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "search:abc", []byte(`{"results":[]}`), time.Minute))

	got, err := repo.Get(ctx, "search:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(got))

	raw, err := client.Get(ctx, cfg.KeyPrefix+"search:abc").Result()
	require.NoError(t, err, "keys are stored under the configured prefix")
	assert.NotEmpty(t, raw)

	ttl, err := client.TTL(ctx, cfg.KeyPrefix+"search:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	exists, err := repo.Exists(ctx, "search:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "search:abc"))
	_, err = client.Get(ctx, cfg.KeyPrefix+"search:abc").Result()
	assert.ErrorIs(t, err, goredis.Nil)
}
