// Package config loads diskmap settings. Values are layered: built-in
// defaults, then the YAML file, then DISKMAP_* environment variables.
// Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tw93/diskmap/internal/sequencer"
	"github.com/tw93/diskmap/internal/treemap"
)

const (
	envPrefix = "DISKMAP_"
	// legacyPathEnv is honoured as a folder fallback for older wrappers.
	legacyPathEnv = "MO_ANALYZE_PATH"

	defaultTickInterval = 100 * time.Millisecond
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Folder is the directory to scan. Empty means the working directory.
	Folder string `yaml:"folder"`

	ApparentSize              bool `yaml:"apparent_size"`
	DisableDeleteConfirmation bool `yaml:"disable_delete_confirmation"`

	// TickInterval paces the loading animation while scanning.
	TickInterval time.Duration `yaml:"tick_interval"`
	// ChannelCapacity bounds the instruction queue.
	ChannelCapacity int `yaml:"channel_capacity"`
	// Workers bounds concurrent directory reads; 0 picks a default.
	Workers          int `yaml:"workers"`
	MaxMagnification int `yaml:"max_magnification"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		TickInterval:     defaultTickInterval,
		ChannelCapacity:  sequencer.DefaultCapacity,
		MaxMagnification: treemap.MaxMagnification,
		LogLevel:         "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/diskmap/config.yaml or the platform
// equivalent. It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "diskmap", "config.yaml")
}

// Load builds the configuration. An explicit path must exist; the default
// path is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		err := cfg.loadFile(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Folder = envOr(envPrefix+"FOLDER", envOr(legacyPathEnv, c.Folder))
	c.ApparentSize = envBool(envPrefix+"APPARENT_SIZE", c.ApparentSize)
	c.DisableDeleteConfirmation = envBool(envPrefix+"DISABLE_DELETE_CONFIRMATION", c.DisableDeleteConfirmation)
	c.TickInterval = envDuration(envPrefix+"TICK_INTERVAL", c.TickInterval)
	c.ChannelCapacity = envInt(envPrefix+"CHANNEL_CAPACITY", c.ChannelCapacity)
	c.Workers = envInt(envPrefix+"WORKERS", c.Workers)
	c.MaxMagnification = envInt(envPrefix+"MAX_MAGNIFICATION", c.MaxMagnification)
	c.LogLevel = envOr(envPrefix+"LOG_LEVEL", c.LogLevel)
	c.LogFile = envOr(envPrefix+"LOG_FILE", c.LogFile)
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %s", ErrInvalid, c.TickInterval)
	}
	if c.ChannelCapacity < 1 {
		return fmt.Errorf("%w: channel_capacity must be at least 1, got %d", ErrInvalid, c.ChannelCapacity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if c.MaxMagnification < 0 || c.MaxMagnification > treemap.MaxMagnification {
		return fmt.Errorf("%w: max_magnification must be within 0..%d, got %d",
			ErrInvalid, treemap.MaxMagnification, c.MaxMagnification)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
