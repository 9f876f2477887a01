package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestSetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	err := client.Set(ctx, "country:USA", `{"code":"USA"}`, TTLCountry)
	require.NoError(t, err)

	val, err := client.Get(ctx, "country:USA")
	require.NoError(t, err)
	assert.Equal(t, `{"code":"USA"}`, val)
}

func TestGetMissingKey(t *testing.T) {
	client, _ := setupTestRedis(t)

	_, err := client.Get(context.Background(), "country:ZZZ")
	assert.Equal(t, goredis.Nil, err)
}

func TestGetExpiredKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "country:USA", "cached", TTLCountry))

	mr.FastForward(TTLCountry + time.Minute)

	_, err := client.Get(ctx, "country:USA")
	assert.Equal(t, goredis.Nil, err, "entries expire after their TTL")
}

func TestSetNX(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "country_has_votes:USA", "1", TTLHasVotes)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "country_has_votes:USA", "2", TTLHasVotes)
	require.NoError(t, err)
	assert.False(t, ok, "second SetNX on a live key is a no-op")

	val, err := client.Get(ctx, "country_has_votes:USA")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestMGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "country:USA", "us", TTLCountry))
	require.NoError(t, client.Set(ctx, "country:CAN", "ca", TTLCountry))

	vals, err := client.MGet(ctx, "country:USA", "country:ZZZ", "country:CAN")
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "us", vals[0])
	assert.Nil(t, vals[1], "missing keys come back as nil entries in position")
	assert.Equal(t, "ca", vals[2])
}

func TestMGetNoKeys(t *testing.T) {
	client, _ := setupTestRedis(t)

	vals, err := client.MGet(context.Background())
	require.NoError(t, err)
	assert.Nil(t, vals)
}

func TestDeleteAndExists(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "country:USA", "us", TTLCountry))
	require.NoError(t, client.Set(ctx, "country:CAN", "ca", TTLCountry))

	n, err := client.Exists(ctx, "country:USA", "country:CAN")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, client.Delete(ctx, "country:USA"))

	n, err = client.Exists(ctx, "country:USA", "country:CAN")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestExpire(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "country_has_votes:USA", "1", 0))
	require.NoError(t, client.Expire(ctx, "country_has_votes:USA", TTLHasVotes))

	mr.FastForward(TTLHasVotes + time.Minute)

	n, err := client.Exists(ctx, "country_has_votes:USA")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSetMultiple(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	err := client.SetMultiple(ctx, map[string]interface{}{
		"country:USA": "us",
		"country:CAN": "ca",
	}, TTLCountry)
	require.NoError(t, err)

	val, err := client.Get(ctx, "country:USA")
	require.NoError(t, err)
	assert.Equal(t, "us", val)

	mr.FastForward(TTLCountry + time.Minute)

	_, err = client.Get(ctx, "country:CAN")
	assert.Equal(t, goredis.Nil, err, "pipeline writes carry the shared TTL")
}

func TestHealth(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestNewClientBadURL(t *testing.T) {
	_, err := NewClient("not-a-url", "test", zap.NewNop())
	assert.Error(t, err)
}
