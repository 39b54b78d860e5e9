package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultDBPath is the default location for the history database
	DefaultDBPath = "~/.chordid"
	// DefaultConfigPath is where Load looks when CHORDID_CONFIG is unset
	DefaultConfigPath = "~/.chordid/config.toml"

	DefaultCacheSize      = 1000
	DefaultMaxProgression = 64
)

// Environment overrides
const (
	EnvConfigPath = "CHORDID_CONFIG"
	EnvDBPath     = "CHORDID_DB_PATH"
	EnvHistory    = "CHORDID_HISTORY"
	EnvCacheSize  = "CHORDID_CACHE_SIZE"
	EnvWorkers    = "CHORDID_WORKERS"
	EnvLogLevel   = "LOG_LEVEL"

	EnvHistoryRetention = "CHORDID_HISTORY_RETENTION"
)

var (
	ErrInvalidCacheSize      = errors.New("cache_size must be >= 0")
	ErrInvalidWorkers        = errors.New("workers must be >= 1")
	ErrInvalidMaxProgression = errors.New("max_progression must be between 1 and 1024")
	ErrInvalidRetention      = errors.New("history_retention must be a non-negative duration such as \"720h\"")
)

// Config holds server configuration
type Config struct {
	DBPath         string `toml:"db_path"`
	HistoryEnabled bool   `toml:"history_enabled"`
	CacheSize      int    `toml:"cache_size"`      // Identification cache entries; 0 disables
	Workers        int    `toml:"workers"`         // Concurrent progression workers
	MaxProgression int    `toml:"max_progression"` // Maximum chords per progression
	LogLevel       string `toml:"log_level"`

	// HistoryRetention prunes older history at startup; empty or "0" keeps everything
	HistoryRetention string `toml:"history_retention"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:         DefaultDBPath,
		HistoryEnabled: true,
		CacheSize:      DefaultCacheSize,
		Workers:        runtime.NumCPU(),
		MaxProgression: DefaultMaxProgression,
		LogLevel:       "info",
	}
}

// Load reads a TOML file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := ExpandHome(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(expanded)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", expanded, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by CHORDID_CONFIG, or DefaultConfigPath
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(path)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHistory, err)
		}
		c.HistoryEnabled = b
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvCacheSize, err)
		}
		c.CacheSize = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHistoryRetention); v != "" {
		c.HistoryRetention = v
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return ErrInvalidCacheSize
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.MaxProgression < 1 || c.MaxProgression > 1024 {
		return ErrInvalidMaxProgression
	}
	if _, err := c.Retention(); err != nil {
		return err
	}
	return nil
}

// Retention parses HistoryRetention. Zero means history is kept forever.
func (c *Config) Retention() (time.Duration, error) {
	if c.HistoryRetention == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HistoryRetention)
	if err != nil || d < 0 {
		return 0, ErrInvalidRetention
	}
	return d, nil
}

// Encode renders the configuration as TOML
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
