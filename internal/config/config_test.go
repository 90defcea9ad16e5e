package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
port = 9000
log_level = "trace"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "sprintflow"
auth_base_url = "http://localhost:54321"
rate_limit_per_min = 100

[production]
host = "0.0.0.0"
port = 8080
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "postgres"
postgres_user = "scoring"
auth_base_url = "https://sprintflow.supabase.co"
auth_cache_ttl_seconds = 60
request_timeout_seconds = 10
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeConfig(t, testToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.PostgresUser)
	assert.Equal(t, 100, cfg.RateLimitPerMin)
	assert.Equal(t, 5*time.Minute, cfg.AuthCacheTTL())
	assert.Equal(t, time.Minute, cfg.RequestTimeout())
	assert.Equal(t, 600, cfg.CatalogCacheTTLSeconds)
}

func TestLoad_Production(t *testing.T) {
	path := writeConfig(t, testToml)

	cfg, err := Load("Production", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "scoring", cfg.PostgresUser)
	assert.Equal(t, time.Minute, cfg.AuthCacheTTL())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("dev", "/non/existing/config.toml")
	assert.Error(t, err)

	path := writeConfig(t, testToml)
	_, err = Load("staging", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")

	noProd := writeConfig(t, "[development]\nport = 1\n")
	_, err = Load("prod", noProd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = Load("dev", noProd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestLoadSecrets(t *testing.T) {
	secrets, err := loadSecrets(context.Background(), envconfig.MapLookuper(map[string]string{
		"SPRINTFLOW_POSTGRES_PASS":  "pg-pass",
		"SPRINTFLOW_WEBHOOK_SECRET": "hook",
		"HONEYCOMB_ENABLED":         "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "pg-pass", secrets.PostgresPassword)
	assert.Equal(t, "hook", secrets.WebhookSecret)
	assert.True(t, secrets.HoneycombEnabled)
	assert.Equal(t, "sprintflow-scoring", secrets.OtelServiceName)
	assert.Empty(t, secrets.RedisPassword)
}
