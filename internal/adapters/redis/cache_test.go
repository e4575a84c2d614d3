package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "ssh_admin/internal/adapters/redis"
)

type stats struct {
	TotalHotels int `json:"totalHotels"`
}

func TestCache_SetGetDelAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	var got stats
	ok, err := c.Get(ctx, "overview", &got)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, c.Set(ctx, "overview", stats{TotalHotels: 7}, 60))
	assert.True(t, mr.Exists("sshadmin:overview"), "keys are namespaced")

	ok, err = c.Get(ctx, "overview", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, got.TotalHotels)

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "overview", &got)
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after its TTL")

	require.NoError(t, c.Set(ctx, "overview", stats{TotalHotels: 1}, 60))
	require.NoError(t, c.Del(ctx, "overview"))
	assert.False(t, mr.Exists("sshadmin:overview"))
}
