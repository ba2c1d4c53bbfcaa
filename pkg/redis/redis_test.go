package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(NewDisabled(), "test")
	cfg := SourceRateLimit("example.com", 3)

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 3, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), ReloadRateLimit))
	assert.False(t, limiter.Enabled())
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(NewDisabled(), "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", map[string]int{"a": 1}, time.Minute))

	var result map[string]int
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found, "disabled cache always misses")
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ScreenResultKey", ScreenResultKey(7, "abc123"), "screen:7:abc123"},
		{"StatsKey", StatsKey(7), "stats:7"},
		{"SourceRateLimit", SourceRateLimit("data.example.com", 0).Key, "source:data.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
	assert.Equal(t, 1, SourceRateLimit("x", 0).Limit, "non-positive rate falls back to 1/s")
}
