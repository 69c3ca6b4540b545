package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "raw_data", cfg.Paths.DataDir)
	assert.Equal(t, "processed_data", cfg.Paths.ProcessedDir)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("EPI_SERVER_PORT", "9090")
	t.Setenv("EPI_LOGGING_LEVEL", "debug")
	t.Setenv("EPI_PATHS_DATA_DIR", "/srv/epipulse/raw")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/epipulse/raw", cfg.Paths.DataDir)
}

func TestLoadInvalidConfig(t *testing.T) {
	t.Setenv("EPI_LOGGING_LEVEL", "verbose")

	_, err := Load()

	assert.Error(t, err, "unknown log level fails validation")
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate())
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{}
	cfg.Paths.DataDir = "a"
	cfg.Paths.ProcessedDir = "b"
	cfg.Paths.LogsDir = "c"

	paths := cfg.GetPaths()

	assert.Equal(t, "a", paths.DataDir)
	assert.Equal(t, "b", paths.ProcessedDir)
	assert.Equal(t, "c", paths.LogsDir)
}

func TestPathsEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		DataDir:      filepath.Join(dir, "raw"),
		ProcessedDir: filepath.Join(dir, "processed"),
		LogsDir:      filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	// The raw data directory is user-provided input and is never created.
	_, err := os.Stat(paths.DataDir)
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(paths.ProcessedDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = os.Stat(paths.LogsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPathsHelpers(t *testing.T) {
	paths := &Paths{DataDir: "/data", ProcessedDir: "/processed"}

	assert.Equal(t, filepath.Join("/data", "x.csv"), paths.GetDataPath("x.csv"))
	assert.Equal(t, filepath.Join("/processed", "y.csv"), paths.GetProcessedPath("y.csv"))
}
