package cache

import (
	"context"
	"testing"

	"newwek/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	t.Parallel()

	t.Run("bare host and port", func(t *testing.T) {
		t.Parallel()
		opts, err := clientOptions(&config.Config{
			RedisURL:          "redis.internal:6380",
			RedisPoolSize:     25,
			RedisMinIdleConns: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "redis.internal:6380", opts.Addr)
		assert.Equal(t, 25, opts.PoolSize)
		assert.Equal(t, 5, opts.MinIdleConns)
	})

	t.Run("full url", func(t *testing.T) {
		t.Parallel()
		opts, err := clientOptions(&config.Config{
			RedisURL:      "redis://:hunter2@redis.internal:6380/1",
			RedisPoolSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, "redis.internal:6380", opts.Addr)
		assert.Equal(t, "hunter2", opts.Password)
		assert.Equal(t, 1, opts.DB)
		assert.Equal(t, 10, opts.PoolSize)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := clientOptions(&config.Config{RedisURL: "redis://invalid:port:extra"})
		assert.Error(t, err)
	})
}

func TestInitRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis(&config.Config{RedisURL: mr.Addr(), RedisPoolSize: 5, RedisMinIdleConns: 1})
	t.Cleanup(func() { client = nil })

	c := GetClient()
	require.NotNil(t, c)
	assert.Equal(t, 5, c.Options().PoolSize)

	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	got, err := c.Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestInitRedis_InvalidURLRunsWithoutCache(t *testing.T) {
	InitRedis(&config.Config{RedisURL: "redis://invalid:port:extra"})
	assert.Nil(t, GetClient())
}

func TestInitRedis_UnreachableRunsWithoutCache(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	InitRedis(&config.Config{RedisURL: addr, RedisPoolSize: 5})
	assert.Nil(t, GetClient())
}
