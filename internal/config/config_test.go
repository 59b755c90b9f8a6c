package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landval/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("LANDVAL_CONFIG", "")
	t.Chdir(dir) // keep a developer's .env out of the test
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, config.BackendFile, cfg.Session.Backend)
	assert.Equal(t, filepath.Join(dir, ".landval"), cfg.Home)
	assert.Equal(t, filepath.Join(dir, ".landval", "landval.log"), cfg.Log.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("LANDVAL_API_BASE_URL", "https://valuer.example.com/")
	t.Setenv("LANDVAL_SESSION_BACKEND", "sqlite")
	t.Setenv("LANDVAL_API_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://valuer.example.com", cfg.API.BaseURL)
	assert.Equal(t, config.BackendSQLite, cfg.Session.Backend)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "landval.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "http://scoring.internal:9000"

[log]
production = true
`), 0o600))
	t.Setenv("LANDVAL_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://scoring.internal:9000", cfg.API.BaseURL)
	assert.True(t, cfg.Log.Production)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LANDVAL_API_BASE_URL=http://from-dotenv:8000\n"), 0o600))
	t.Setenv("LANDVAL_API_BASE_URL", "") // restores the outer value afterwards
	require.NoError(t, os.Unsetenv("LANDVAL_API_BASE_URL"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv:8000", cfg.API.BaseURL)
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := config.Config{API: config.APIConfig{BaseURL: "http://x"}, Session: config.SessionConfig{Backend: "redis"}}
	assert.Error(t, cfg.Validate())
}

func TestWithHome_RederivesLogPath(t *testing.T) {
	isolate(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	moved := cfg.WithHome("/tmp/elsewhere")
	assert.Equal(t, "/tmp/elsewhere", moved.Home)
	assert.Equal(t, filepath.Join("/tmp/elsewhere", "landval.log"), moved.Log.File)
}
