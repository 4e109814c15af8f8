// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tracking TrackingConfig `toml:"tracking"`
	AI       AIConfig       `toml:"ai"`
}

// TrackingConfig maps location-tracking settings.
type TrackingConfig struct {
	Source      *string  `toml:"source"` // "gpsd" or "simulate"
	GpsdAddress *string  `toml:"gpsd-address"`
	HomeLat     *float64 `toml:"home-lat"`
	HomeLng     *float64 `toml:"home-lng"`
}

// AIConfig maps generative-AI settings.
type AIConfig struct {
	APIKey *string `toml:"api-key"`
	Model  *string `toml:"model"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
