package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. Keys absent from the file keep
// their default values.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := resolveDataDir(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to pure
// defaults when it does not.
func LoadOrDefault(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := resolveDataDir(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

func resolveDataDir(cfg *AppConfig) error {
	if cfg.Storage.DataDir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	cfg.Storage.DataDir = filepath.Join(home, ".remedy")
	return nil
}
