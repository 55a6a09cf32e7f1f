package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	c := New("", "", "vigor:test:", time.Minute)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))

	var out map[string]int
	assert.False(t, c.Get(ctx, "k", &out))
	assert.NoError(t, c.Flush(ctx))
	assert.NoError(t, c.Close())
}

func TestCache_NilIsDisabled(t *testing.T) {
	t.Parallel()

	var c *Cache
	var out string
	assert.False(t, c.Enabled())
	assert.False(t, c.Get(context.Background(), "k", &out))
}

func TestCache_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	c := New(addr, os.Getenv("TEST_REDIS_PASSWORD"), "vigor:test:", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	type payload struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, c.Set(ctx, "product:a", payload{Slug: "a"}))

	var got payload
	require.True(t, c.Get(ctx, "product:a", &got))
	assert.Equal(t, "a", got.Slug)

	require.NoError(t, c.Flush(ctx))
	assert.False(t, c.Get(ctx, "product:a", &got))
}
