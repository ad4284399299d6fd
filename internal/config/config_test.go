package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 120, cfg.Orchestrator.TaskTimeoutSeconds)
	assert.Equal(t, "disable", cfg.Archive.SSLMode)
	assert.False(t, cfg.Archive.Enable)
	assert.False(t, cfg.TLS.Enable)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
orchestrator:
  task_timeout_seconds: 30
archive:
  enable: true
  host: db.internal
  port: 5432
  user: orchestrator
  name: workflows
tls:
  enable: true
  cert_file: cert.pem
  key_file: key.pem
  hostnames:
    - localhost
    - orchestrator.local
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Orchestrator.TaskTimeoutSeconds)
	assert.True(t, cfg.Archive.Enable)
	assert.Equal(t, "db.internal", cfg.Archive.Host)
	assert.Equal(t, 5432, cfg.Archive.Port)
	assert.Equal(t, "disable", cfg.Archive.SSLMode)
	assert.True(t, cfg.TLS.Enable)
	assert.Equal(t, []string{"localhost", "orchestrator.local"}, cfg.TLS.Hostnames)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
