package appcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "language: ru\nlog_level: debug\nhide_secrets_in_console: true\ncores: 3\nenv_file: wallet.env\n")

	c, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ru", c.Language)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.HideSecretsInConsole)
	assert.Equal(t, 3, c.Cores)
	assert.Equal(t, "logs", c.LogsDir)
	assert.Equal(t, "wallet.env", c.EnvFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "log_level: debug\ncores: 3\n")
	t.Setenv("VANITY_LOG_LEVEL", "warn")
	t.Setenv("VANITY_CORES", "16")
	t.Setenv("VANITY_HIDE_SECRETS", "true")

	c, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 16, c.Cores)
	assert.True(t, c.HideSecretsInConsole)
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := Load(context.Background(), writeFile(t, "cores: [1, 2\n"))
	require.Error(t, err)

	_, err = Load(context.Background(), writeFile(t, "cores: -1\n"))
	require.Error(t, err)
}
