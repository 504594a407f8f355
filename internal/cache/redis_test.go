package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/cache"
)

type snapshot struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

func TestNoop(t *testing.T) {
	var c cache.Cache = cache.Noop{}

	require.NoError(t, c.Set(context.Background(), "k", snapshot{Total: 1}, time.Minute))

	var got snapshot
	ok, err := c.Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Requires a running Redis; set CDAPOS_TEST_REDIS_ADDR to enable.
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("CDAPOS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CDAPOS_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c := cache.NewRedis(addr, "", 0)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Ping(ctx))

	key := "test:" + t.Name()
	want := snapshot{Counts: map[string]int64{"bills_50000": 3}, Total: 150000}

	require.NoError(t, c.Set(ctx, key, want, time.Minute))

	var got snapshot
	ok, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, key))

	ok, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
