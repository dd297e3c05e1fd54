package web_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.Server.GracefulTimeout)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "sb-access-token", cfg.Auth.AccessCookie)
	assert.Equal(t, "sb-refresh-token", cfg.Auth.RefreshCookie)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.False(t, cfg.Events.Enable)
	assert.Equal(t, "deadswitch/web", cfg.AsLoggerConfig().App)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: https://api.example.com/v1
  timeout: 3s
auth:
  signin_path: /login
events:
  enable: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
`), 0o600))
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "/login", cfg.Auth.SignInPath)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoad_RejectsRelativeBackend(t *testing.T) {
	for _, base := range []string{"/api", "localhost:8000", "ftp://example.com"} {
		t.Setenv("BACKEND_BASE_URL", base)
		_, err := Load("")
		assert.ErrorIs(t, err, ErrBackendURL, base)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
}
