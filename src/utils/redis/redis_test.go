package redis_utils_test

import (
	"context"
	redis_utils "dashboard/src/utils/redis"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SampleData struct {
	Name  string
	Slug  string
	Users int
}

func TestGenerateUUID(t *testing.T) {
	a := redis_utils.GenerateUUID("admin", "reports")
	b := redis_utils.GenerateUUID("admin", "reports")
	c := redis_utils.GenerateUUID("adminreports")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

// TestRedisHandler needs a live server; set DASH_TEST_REDIS_ADDR to run it.
func TestRedisHandler(t *testing.T) {
	addr := os.Getenv("DASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DASH_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(ctx).Err())

	handler := redis_utils.NewRedisHandlerFromClient(client, "dashboard-test")
	defer handler.Close()

	key := redis_utils.GenerateUUID("redis-handler-test", time.Now().String())
	expiration := 10 * time.Second

	t.Run("Set and Get with struct", func(t *testing.T) {
		value := []SampleData{{Name: "Weekly Ops", Slug: "weekly-ops", Users: 2}}
		require.NoError(t, handler.Set(ctx, key, value, expiration))

		var got []SampleData
		found, err := handler.Get(ctx, key, &got)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, value, got)
	})

	t.Run("Exists and Delete", func(t *testing.T) {
		exists, err := handler.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, handler.Delete(ctx, key))

		var got []SampleData
		found, err := handler.Get(ctx, key, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Expiration", func(t *testing.T) {
		require.NoError(t, handler.Set(ctx, key, "short lived", 1*time.Second))
		time.Sleep(1500 * time.Millisecond)

		exists, err := handler.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
