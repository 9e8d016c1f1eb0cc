// Package config loads SpendPilot settings from the TOML config file, a
// local .env file and the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIBaseURL = "SPENDPILOT_API_BASE_URL"
	EnvLogLevel   = "SPENDPILOT_LOG_LEVEL"
)

// DefaultAPIBaseURL is used when neither the environment nor the config file
// names a backend.
const DefaultAPIBaseURL = "http://localhost:8000/"

// Config holds all SpendPilot configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Upload     UploadConfig     `toml:"upload"`
	Storage    StorageConfig    `toml:"storage"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig holds analysis backend settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// UploadConfig holds client-side validation limits.
type UploadConfig struct {
	MaxSizeMB int      `toml:"max_size_mb"`
	Accepted  []string `toml:"accepted,omitempty"`
}

// StorageConfig holds the result store location.
type StorageConfig struct {
	Path string `toml:"path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			TimeoutSec: 1200,
		},
		Upload: UploadConfig{
			MaxSizeMB: 10,
			Accepted:  []string{".pdf", ".json", ".txt"},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendpilot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendpilot")
}

// CacheDir returns the XDG-compliant cache directory holding the result
// store and TUI log file.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendpilot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "spendpilot")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies .env and environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is normal; real environment variables always win.
	_ = godotenv.Load()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// BaseURL returns the effective analysis backend URL.
func (c Config) BaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return DefaultAPIBaseURL
}

// Timeout returns the fixed per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 1200 * time.Second
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// StorePath returns the result store database path.
func (c Config) StorePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(CacheDir(), "spendpilot.db")
}

// LogPath returns the TUI log file path.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(CacheDir(), "spendpilot.log")
}
