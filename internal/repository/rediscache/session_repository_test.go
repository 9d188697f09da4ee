package rediscache

import (
	"context"
	"os"
	"testing"
	"time"

	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo := NewSessionRepository(redisClient(t), time.Minute)
	ctx := context.Background()
	id := uuid.NewString()

	s := store.NewSession(id, "u-7")
	s.Context.Complete(router.ModeAnalytics, "Shall I email this?")
	require.NoError(t, repo.Save(ctx, s))

	got, found, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, router.ModeAnalytics, got.Context.CurrentMode)
	assert.Equal(t, "Shall I email this?", got.Context.LastAssistantMessage)

	require.NoError(t, repo.Delete(ctx, id))
	_, found, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}
