package config

import (
	"time"

	"github.com/vietddude/remedy/internal/engine/execute"
	redisclient "github.com/vietddude/remedy/internal/infra/redis"
	"github.com/vietddude/remedy/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Recovery execute.Config     `yaml:"recovery"`
	Storage  StorageConfig      `yaml:"storage"`
	History  HistoryConfig      `yaml:"history"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig holds file-backed persistence settings. Ignored when a
// database URL is configured.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"` // empty = ~/.remedy
}

// HistoryConfig holds attempt log retention settings.
type HistoryConfig struct {
	RetentionPeriod time.Duration `yaml:"retention_period"` // 0 = infinite
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the stock configuration.
func Default() *AppConfig {
	return &AppConfig{
		Server:   ServerConfig{Port: 8080},
		Recovery: execute.DefaultConfig(),
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}
