package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Point CONFIG_FILE at an empty file so the loader does not pick up
	// a stray planner.yaml from the working directory.
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.EnableMetrics)
	assert.NotEmpty(t, cfg.DataPath)
}

func TestLoadConfig_FileThenEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"serverAddress: \":9000\"\nenvironment: production\nlogLevel: debug\n",
	), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9999")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Environment beats the file, the file beats the defaults.
	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_RejectsUnknownEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ENVIRONMENT", "staging")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{ServerAddress: ":8090", DataPath: "x.db", Environment: "test"}
	assert.NoError(t, cfg.Validate())

	cfg.ServerAddress = ""
	assert.Error(t, cfg.Validate())
}
