package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
database:
  host: db.internal
  port: 3306
webhook:
  verify_token: abc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 72, cfg.JWT.ExpireHours)
	assert.Equal(t, "abc", cfg.Webhook.VerifyToken)
	assert.Equal(t, "inboop:webhook_events", cfg.Webhook.Queue)
	assert.Equal(t, 4, cfg.Webhook.MaxWorkers)
	assert.Equal(t, "v19.0", cfg.OAuth.Meta.GraphVersion)
	assert.Contains(t, cfg.OAuth.Meta.Scopes, "instagram_manage_messages")
	assert.Equal(t, "*/10 * * * *", cfg.Cron.PlanExpirySpec)
	assert.Equal(t, 72, cfg.Invitation.ExpireHours)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_LocalOverrideAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "jwt:\n  secret: committed\n")
	writeConfig(t, dir, "config.local.yaml", "jwt:\n  secret: local\n")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yaml", PathFromEnv())

	t.Setenv("CONFIG_PATH", "/etc/inboop/config.yaml")
	assert.Equal(t, "/etc/inboop/config.yaml", PathFromEnv())
}
