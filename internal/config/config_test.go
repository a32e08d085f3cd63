package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Both feature toggles accept the same boolean spellings.
func TestBooleanTogglesShareParser(t *testing.T) {
	for _, v := range []string{"1", "yes", "on", "true", "TRUE"} {
		t.Setenv("CACHE_ENABLED", v)
		t.Setenv("RATE_LIMIT_ENABLED", v)
		require.True(t, LoadCacheConfig().Enabled, v)
		require.True(t, LoadRateLimitConfig().Enabled, v)
	}
	for _, v := range []string{"0", "no", "off", "false", "FALSE"} {
		t.Setenv("CACHE_ENABLED", v)
		t.Setenv("RATE_LIMIT_ENABLED", v)
		require.False(t, LoadCacheConfig().Enabled, v)
		require.False(t, LoadRateLimitConfig().Enabled, v)
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	for _, k := range []string{"CACHE_ENABLED", "CACHE_TTL", "CACHE_PREFIX", "CACHE_MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := LoadCacheConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 30*time.Second, cfg.TTL)
	require.Equal(t, "cache", cfg.Prefix)
	require.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestRateLimitConfigClampsTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	require.Equal(t, 50*time.Second, cfg.TTL)
}
