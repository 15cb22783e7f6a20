// Package config loads the optional app config file. Everything has a
// sensible default; most installs never create the file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DBPath            string `yaml:"db_path"`
	HeartbeatSeconds  int    `yaml:"heartbeat_seconds"`
	PowerHourMinutes  int    `yaml:"power_hour_minutes"`
	PowerHourCoinCost int    `yaml:"power_hour_coin_cost"`
}

func Default() AppConfig {
	return AppConfig{
		HeartbeatSeconds:  30,
		PowerHourMinutes:  60,
		PowerHourCoinCost: 1,
	}
}

// DefaultPath returns ~/.config/emberday/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", "emberday", "config.yaml"), nil
}

// Load reads the config at path, filling omitted fields with defaults. A
// missing file is not an error; it just means all defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config.yaml: %w", err)
	}
	if cfg.HeartbeatSeconds < 1 {
		cfg.HeartbeatSeconds = Default().HeartbeatSeconds
	}
	if cfg.PowerHourMinutes < 1 {
		cfg.PowerHourMinutes = Default().PowerHourMinutes
	}
	if cfg.PowerHourCoinCost < 1 {
		cfg.PowerHourCoinCost = Default().PowerHourCoinCost
	}
	return cfg, nil
}
