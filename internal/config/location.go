package config

import (
	"os"
	"path/filepath"
)

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "SURVIVOR_CONFIG"

// GetConfigPath returns the configuration file path. It first checks the
// SURVIVOR_CONFIG environment variable, then falls back to ~/.survivor/config.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv(ConfigEnvVar); configPath != "" {
		return configPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".survivor", "config"), nil
}
