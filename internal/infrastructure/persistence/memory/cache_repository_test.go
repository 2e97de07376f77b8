package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

func TestCacheRepository_SetGetDelete(t *testing.T) {
	repo := NewCacheRepository(0)
	defer repo.Close()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	value := []byte("payload")
	require.NoError(t, repo.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got), "stored values are copied")

	exists, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "k"))
	_, err = repo.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_Expiry(t *testing.T) {
	repo := NewCacheRepository(0)
	defer repo.Close()
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Set(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, repo.Set(ctx, "default", []byte("v"), 0))

	now = now.Add(2 * time.Second)

	_, err := repo.Get(ctx, "short")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	exists, _ := repo.Exists(ctx, "short")
	assert.False(t, exists)

	_, err = repo.Get(ctx, "default")
	assert.NoError(t, err)

	repo.sweep()
	assert.Equal(t, 1, repo.Len())
}

func TestCacheRepository_CloseIsIdempotent(t *testing.T) {
	repo := NewCacheRepository(time.Millisecond)
	assert.NoError(t, repo.Close())
	assert.NoError(t, repo.Close())
	assert.NoError(t, repo.Ping(context.Background()))
}
