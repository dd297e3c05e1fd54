package switchctl_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("switchctl", pflag.ContinueOnError)
	fs.String("backend", "", "")
	fs.Duration("timeout", 0, "")
	fs.String("email", "", "")
	fs.StringSlice("brokers", nil, "")
	return fs
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "switchctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
email: file@example.com
backend:
  base_url: http://file:8000
  timeout: 4s
`), 0o600))
	t.Setenv("SWITCHCTL_EMAIL", "env@example.com")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--backend", "https://flag.example.com"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "env@example.com", cfg.Email)
	assert.Equal(t, 4*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
}

func TestLoad_UnsetFlagsKeepDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), newFlags())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "stderr", cfg.AsLoggerConfig().Output)
}

func TestLoad_BadBackend(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--backend", "not a url"}))
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), fs)
	assert.ErrorIs(t, err, ErrBackendURL)
}
