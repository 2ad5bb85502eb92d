package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, 10*time.Minute, cfg.StatementCacheTTL)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STATEMENT_CACHE_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.Equal(t, 30*time.Second, cfg.StatementCacheTTL)
}
