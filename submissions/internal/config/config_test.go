package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "data/submissions.json", cfg.Storage.File.Path)
	assert.Equal(t, "submissions", cfg.Storage.PostgREST.Table)
	assert.Equal(t, 10*time.Second, cfg.Storage.PostgREST.Timeout)
	assert.Equal(t, "file://migrations", cfg.Storage.Postgres.MigrationsPath)
	assert.True(t, cfg.Storage.Postgres.AutoMigrate)

	assert.Equal(t, int64(1048576), cfg.Ingest.MaxBodyBytes)
	assert.False(t, cfg.Ingest.RateLimitEnabled)
	assert.Equal(t, time.Minute, cfg.Ingest.RateLimitWindow)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
storage:
  backend: postgrest
  postgrest:
    url: https://project.supabase.co
    key: service-role
    timeout: 3s
ingest:
  rate_limit_enabled: true
  rate_limit_requests: 5
  rate_limit_window: 10s
redis:
  enabled: true
  url: redis://cache:6379/1
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgrest", cfg.Storage.Backend)
	assert.Equal(t, "https://project.supabase.co", cfg.Storage.PostgREST.URL)
	assert.Equal(t, "service-role", cfg.Storage.PostgREST.Key)
	assert.Equal(t, 3*time.Second, cfg.Storage.PostgREST.Timeout)
	assert.True(t, cfg.Ingest.RateLimitEnabled)
	assert.Equal(t, 5, cfg.Ingest.RateLimitRequests)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SURVEY_STORAGE_BACKEND", "postgrest")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_KEY", "env-key")
	t.Setenv("PORT", "8081")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgrest", cfg.Storage.Backend)
	assert.Equal(t, "https://env.supabase.co", cfg.Storage.PostgREST.URL)
	assert.Equal(t, "env-key", cfg.Storage.PostgREST.Key)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "storage:\n  backend: mongo\n"},
		{"unknown log level", "logging:\n  level: loud\n"},
		{"redis enabled without url", "redis:\n  enabled: true\n  url: \"\"\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o644))

			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
