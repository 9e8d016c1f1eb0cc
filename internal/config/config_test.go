package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL() != DefaultAPIBaseURL {
		t.Errorf("BaseURL() = %q, want %q", cfg.BaseURL(), DefaultAPIBaseURL)
	}
	if cfg.Timeout() != 1200*time.Second {
		t.Errorf("Timeout() = %v, want 1200s", cfg.Timeout())
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.test/"
	cfg.Upload.MaxSizeMB = 5
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.API.BaseURL != cfg.API.BaseURL || got.Upload.MaxSizeMB != 5 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://file.example.test/"
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIBaseURL, "https://env.example.test/")
	t.Setenv(EnvLogLevel, "debug")

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseURL() != "https://env.example.test/" {
		t.Errorf("BaseURL() = %q, want env value", got.BaseURL())
	}
	if got.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", got.Log.Level)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[api\nbase_url ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStorePath(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	cfg := DefaultConfig()
	if want := filepath.Join(cache, "spendpilot", "spendpilot.db"); cfg.StorePath() != want {
		t.Errorf("StorePath() = %q, want %q", cfg.StorePath(), want)
	}
	cfg.Storage.Path = "/tmp/custom.db"
	if cfg.StorePath() != "/tmp/custom.db" {
		t.Errorf("StorePath() override = %q", cfg.StorePath())
	}
}
