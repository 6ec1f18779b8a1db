package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/config"
)

// TestLoadDefaults checks an empty path yields a valid default config.
func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DataDir)
	_, err = cfg.ProgramAddress()
	assert.NoError(t, err)
}

// TestLoadFile checks TOML fields land and missing ones fall back.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokengov.toml")
	body := "data_dir = \"/var/lib/tokengov\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tokengov", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NotEmpty(t, cfg.Program)
}

// TestLoadRejectsBadValues checks validation failures.
func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad-level.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"loud\"\n"), 0o600))
	_, err := config.Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-program.toml")
	require.NoError(t, os.WriteFile(path, []byte("program = \"nothex\"\n"), 0o600))
	_, err = config.Load(path)
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(dir, "does-not-exist.toml"))
	assert.Error(t, err)
}
