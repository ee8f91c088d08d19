package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arina0022/ya-note/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: prod
http_server:
  address: 0.0.0.0:9090
  timeout: 10s
storage:
  driver: postgres
  dsn: postgres://localhost/ya_note
auth:
  secret: prod-secret
  token_ttl: 1h
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTPServer.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: badger
  dsn: whatever
`)
	_, err := config.Load(path)
	assert.ErrorContains(t, err, "storage driver")
}

func TestLoad_RequiresSecretOutsideLocal(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage:
  driver: sqlite
  dsn: notes.db
`)
	_, err := config.Load(path)
	assert.ErrorContains(t, err, "auth.secret")
}
