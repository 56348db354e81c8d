// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Assistant AssistantConfig `toml:"assistant"`
	Life      LifeConfig      `toml:"life"`
	Community CommunityConfig `toml:"community"`
}

// AssistantConfig maps assistant-related settings.
type AssistantConfig struct {
	Model          *string `toml:"model"`
	APIKey         *string `toml:"api-key"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// LifeConfig maps week-grid defaults.
type LifeConfig struct {
	ExpectancyWeeks *int `toml:"expectancy-weeks"`
}

// CommunityConfig maps community feed settings.
type CommunityConfig struct {
	FeedPath *string `toml:"feed-path"`
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
