package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Timer.Comparison)
	assert.Nil(t, cfg.Keys.Split)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[timer]
comparison = "golds"
frame-rounding = true
tick-ms = 10

[keys]
split = "space,enter"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "golds", StringOr(cfg.Timer.Comparison, ""))
	require.NotNil(t, cfg.Timer.FrameRounding)
	assert.True(t, *cfg.Timer.FrameRounding)
	require.NotNil(t, cfg.Timer.TickMs)
	assert.Equal(t, 10, *cfg.Timer.TickMs)
	assert.Equal(t, "space,enter", StringOr(cfg.Keys.Split, ""))
	assert.Equal(t, "p", StringOr(cfg.Keys.Pause, "p"))
	assert.Equal(t, "debug", StringOr(cfg.Log.Level, ""))
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timer]\ncomparsion = \"pb\"\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/cfg", "tuisplit", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "tuisplit", "tuisplit.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/state", "tuisplit", "tuisplit.log"), DefaultLogPath())
	assert.Equal(t, filepath.Join("/data", "tuisplit", "splits"), DefaultSplitsDir())
}
