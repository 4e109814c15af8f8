package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Tracking.Source != nil {
		t.Fatal("expected zero config for missing file")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[tracking]
source = "simulate"
home-lat = 51.5074
home-lng = -0.1278

[ai]
api-key = "abc123"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Tracking.Source == nil || *cfg.Tracking.Source != "simulate" {
		t.Fatalf("unexpected source: %v", cfg.Tracking.Source)
	}
	if cfg.Tracking.HomeLat == nil || *cfg.Tracking.HomeLat != 51.5074 {
		t.Fatalf("unexpected home-lat: %v", cfg.Tracking.HomeLat)
	}
	if cfg.Tracking.GpsdAddress != nil {
		t.Fatal("unset gpsd-address should stay nil")
	}
	if cfg.AI.APIKey == nil || *cfg.AI.APIKey != "abc123" {
		t.Fatalf("unexpected api-key: %v", cfg.AI.APIKey)
	}
	if cfg.AI.Model != nil {
		t.Fatal("unset model should stay nil")
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tracking\nsource ="), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected decode error")
	}
}
