package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	cache "croncommander/internal/cache/iface"
	"croncommander/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCache connects to the Redis named by CRON_COMMANDER_TEST_REDIS_ADDR
func setupCache(t *testing.T) cache.Cache {
	addr := os.Getenv("CRON_COMMANDER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CRON_COMMANDER_TEST_REDIS_ADDR not set")
	}

	c, err := NewRedisCache(addr, "", 0, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBasicOperations(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test:basic:key1"
		t.Cleanup(func() { c.Delete(ctx, key) })

		require.NoError(t, c.Set(ctx, key, "test-value", 0))

		result, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "test-value", result)
	})

	t.Run("Set with TTL", func(t *testing.T) {
		key := "test:basic:key2"

		require.NoError(t, c.Set(ctx, key, "short-lived", time.Second))
		time.Sleep(1500 * time.Millisecond)

		_, err := c.Get(ctx, key)
		assert.True(t, errors.Is(err, cache.ErrKeyNotFound))
	})

	t.Run("GetDel reads once", func(t *testing.T) {
		key := "test:basic:key3"
		require.NoError(t, c.Set(ctx, key, "once", time.Minute))

		result, err := c.GetDel(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "once", result)

		_, err = c.GetDel(ctx, key)
		assert.ErrorIs(t, err, cache.ErrKeyNotFound)
	})
}

func TestSortedSetAndHashOperations(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	zkey, hkey := "test:zset:due", "test:hash:recurrence"
	t.Cleanup(func() {
		c.Delete(ctx, zkey)
		c.Delete(ctx, hkey)
	})

	_, err := c.Eval(ctx, `
redis.call('ZADD', KEYS[1], 20, 'b')
redis.call('ZADD', KEYS[1], 10, 'a')
redis.call('HSET', KEYS[2], 'a', 'hourly')
return nil`, []string{zkey, hkey})
	require.NoError(t, err)

	members, err := c.ZRangeWithScores(ctx, zkey)
	require.NoError(t, err)
	assert.Equal(t, []cache.ScoredMember{{Member: "a", Score: 10}, {Member: "b", Score: 20}}, members)

	score, err := c.ZScore(ctx, zkey, "b")
	require.NoError(t, err)
	assert.Equal(t, float64(20), score)

	_, err = c.ZScore(ctx, zkey, "missing")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)

	recurrence, err := c.HGet(ctx, hkey, "a")
	require.NoError(t, err)
	assert.Equal(t, "hourly", recurrence)

	all, err := c.HGetAll(ctx, hkey)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "hourly"}, all)

	_, err = c.HGet(ctx, hkey, "b")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}
