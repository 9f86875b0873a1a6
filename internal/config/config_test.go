package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PVCALC_PORT", "PVCALC_GIN_MODE", "PVCALC_LOG_LEVEL", "PVCALC_LOG_FORMAT", "PVCALC_TABLES"} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.TablesPath)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PVCALC_PORT", "9090")
	t.Setenv("PVCALC_LOG_LEVEL", "debug")
	t.Setenv("PVCALC_TABLES", "/etc/pvcalc/tables.toml")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/etc/pvcalc/tables.toml", cfg.TablesPath)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PVCALC_PORT")
	os.Unsetenv("PVCALC_LOG_FORMAT")
	t.Cleanup(func() {
		os.Unsetenv("PVCALC_PORT")
		os.Unsetenv("PVCALC_LOG_FORMAT")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PVCALC_PORT=7070\nPVCALC_LOG_FORMAT=json\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PVCALC_PORT", "not-a-port")

	_, err := LoadFile("")
	assert.Error(t, err)
}
