package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a Redis on localhost:6379; skipped otherwise.
func TestRedisSessionRepository(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	repo := NewRedisSessionRepository(rdb)
	tokenID := uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), revokedTokenKeyPrefix+tokenID) })

	revoked, err := repo.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, tokenID, time.Minute))
	revoked, err = repo.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedTokenKeyPrefix+tokenID).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, repo.Revoke(ctx, "expired-"+tokenID, 0))
	revoked, err = repo.IsRevoked(ctx, "expired-"+tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)
}
