package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir isolates each test from any config.yaml in the working tree.
func chdir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("REPLICATE_API_TOKEN", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
	assert.Equal(t, "https://api.replicate.com/v1", cfg.Replicate.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Replicate.PollInterval)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfig_TokenFromEnv(t *testing.T) {
	chdir(t)
	t.Setenv("REPLICATE_API_TOKEN", "r8_secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "r8_secret", cfg.Replicate.APIToken)
}

func TestLoadConfig_MissingTokenIsNotFatal(t *testing.T) {
	chdir(t)
	t.Setenv("REPLICATE_API_TOKEN", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Replicate.APIToken)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("REPLICATE_API_TOKEN", "")

	yaml := `
server:
  port: "8080"
  env: production
rate_limit:
  requests_per_second: 50
  burst: 100
redis:
  enabled: true
  addr: redis:6379
`
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, 50.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	// Untouched keys keep their defaults.
	assert.Equal(t, "https://api.replicate.com/v1", cfg.Replicate.BaseURL)
}
