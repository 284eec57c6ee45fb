package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config location at an empty directory and
// clears variables that would leak in from the developer's shell.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"DISKMAP_FOLDER", "MO_ANALYZE_PATH", "DISKMAP_APPARENT_SIZE",
		"DISKMAP_DISABLE_DELETE_CONFIRMATION", "DISKMAP_TICK_INTERVAL",
		"DISKMAP_CHANNEL_CAPACITY", "DISKMAP_WORKERS", "DISKMAP_MAX_MAGNIFICATION",
		"DISKMAP_LOG_LEVEL", "DISKMAP_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 100, cfg.ChannelCapacity)
	assert.Equal(t, 4, cfg.MaxMagnification)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
folder: /srv/data
apparent_size: true
disable_delete_confirmation: true
tick_interval: 250ms
channel_capacity: 32
workers: 4
max_magnification: 2
log_level: debug
log_file: /tmp/diskmap.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Folder:                    "/srv/data",
		ApparentSize:              true,
		DisableDeleteConfirmation: true,
		TickInterval:              250 * time.Millisecond,
		ChannelCapacity:           32,
		Workers:                   4,
		MaxMagnification:          2,
		LogLevel:                  "debug",
		LogFile:                   "/tmp/diskmap.log",
	}, cfg)
}

func TestLoadDefaultPathFile(t *testing.T) {
	isolate(t)
	dir, err := os.UserConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "diskmap"), 0o755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("apparent_size: true\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.ApparentSize)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "channel_capacity: 32\nlog_level: warn\n")
	t.Setenv("DISKMAP_CHANNEL_CAPACITY", "8")
	t.Setenv("DISKMAP_APPARENT_SIZE", "true")
	t.Setenv("DISKMAP_TICK_INTERVAL", "50ms")
	t.Setenv("DISKMAP_WORKERS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.ChannelCapacity)
	assert.True(t, cfg.ApparentSize)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Zero(t, cfg.Workers)
}

func TestFolderEnvPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "folder: /from/file\n")

	t.Setenv("MO_ANALYZE_PATH", "/from/legacy")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/legacy", cfg.Folder)

	t.Setenv("DISKMAP_FOLDER", "/from/env")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Folder)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "channel_capacity: [1, 2]\n"))
	assert.Error(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"zero tick", "tick_interval: 0s\n"},
		{"zero capacity", "channel_capacity: 0\n"},
		{"negative workers", "workers: -1\n"},
		{"magnification too high", "max_magnification: 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
