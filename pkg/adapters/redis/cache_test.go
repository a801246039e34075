package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inertia/pkg/adapters/redis"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/ports"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := setup(t)

	cache := redis.NewFromClient(client)
	ports.RunPayloadCacheContract(t, cache)
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("app:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "users/card:1", []byte("{}")))

	assert.True(t, mr.Exists("app:users/card:1"))
	assert.False(t, mr.Exists(redis.DefaultPrefix+"users/card:1"))
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Second, mr.TTL(redis.DefaultPrefix+"k"))

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Ping(t *testing.T) {
	_, client := setup(t)
	assert.NoError(t, redis.NewFromClient(client).Ping(context.Background()))
}
