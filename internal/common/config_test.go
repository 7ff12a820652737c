package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8000)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL default = %q, want http://localhost:8000", cfg.API.BaseURL)
	}
	if cfg.Provider.Kind != "mock" {
		t.Errorf("Provider.Kind default = %q, want mock", cfg.Provider.Kind)
	}
	if cfg.Query.GetTTL() != 0 {
		t.Errorf("Query TTL default = %v, want 0 (lifetime)", cfg.Query.GetTTL())
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("QUANTDASH_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_APIURLEnvPrecedence(t *testing.T) {
	t.Setenv("REACT_APP_API_URL", "http://legacy:8000")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)
	if cfg.API.BaseURL != "http://legacy:8000" {
		t.Errorf("API.BaseURL = %q, want legacy URL", cfg.API.BaseURL)
	}

	t.Setenv("QUANTDASH_API_URL", "http://api:9000")
	cfg = NewDefaultConfig()
	applyEnvOverrides(cfg)
	if cfg.API.BaseURL != "http://api:9000" {
		t.Errorf("API.BaseURL = %q, want QUANTDASH_API_URL to win", cfg.API.BaseURL)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quantdash.toml")
	content := `
environment = "production"

[api]
base_url = "https://api.example.com/"

[provider]
kind = "http"
seed = 7

[query]
ttl = "5m"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.Provider.Kind != "http" || cfg.Provider.Seed != 7 {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Query.GetTTL() != 5*time.Minute {
		t.Errorf("Query TTL = %v, want 5m", cfg.Query.GetTTL())
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("this is = = not toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestAuthConfig_TokenExpiryFallback(t *testing.T) {
	c := AuthConfig{TokenExpiry: "nonsense"}
	if got := c.GetTokenExpiry(); got != 24*time.Hour {
		t.Errorf("GetTokenExpiry = %v, want 24h", got)
	}
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	if IsFresh(time.Time{}, 0, now) {
		t.Error("zero timestamp must never be fresh")
	}
	if !IsFresh(now.Add(-48*time.Hour), 0, now) {
		t.Error("zero ttl must never expire")
	}
	if IsFresh(now.Add(-2*time.Minute), time.Minute, now) {
		t.Error("expected stale entry")
	}
	if !IsFresh(now.Add(-30*time.Second), time.Minute, now) {
		t.Error("expected fresh entry")
	}
}
