package config

import (
	"strings"
	"time"
)

// Config represents the complete .jobly.yml / .jobly.toml configuration
type Config struct {
	Version   string         `yaml:"version" toml:"version"`
	CreatedAt time.Time      `yaml:"created_at" toml:"created_at"`
	Database  DatabaseConfig `yaml:"database" toml:"database"`
	Server    ServerConfig   `yaml:"server" toml:"server"`
	Journal   JournalConfig  `yaml:"journal" toml:"journal"`
	Logging   LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	ConnectionString  string `yaml:"connection_string" toml:"connection_string"` // ${DATABASE_URL} or hardcoded
	MaxConnections    int    `yaml:"max_connections,omitempty" toml:"max_connections,omitempty"`
	MinConnections    int    `yaml:"min_connections,omitempty" toml:"min_connections,omitempty"`
	ConnectionTimeout int    `yaml:"connection_timeout,omitempty" toml:"connection_timeout,omitempty"` // seconds
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr            string `yaml:"addr" toml:"addr"`
	ShutdownTimeout int    `yaml:"shutdown_timeout,omitempty" toml:"shutdown_timeout,omitempty"` // seconds
}

// JournalConfig controls the mutation audit journal
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Dir     string `yaml:"dir,omitempty" toml:"dir,omitempty"` // defaults to .jobly/journal
}

// LoggingConfig controls request logging
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text, json
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Version:   "0.3.0",
		CreatedAt: time.Now(),
		Database: DatabaseConfig{
			ConnectionString:  "${DATABASE_URL}",
			MaxConnections:    10,
			MinConnections:    2,
			ConnectionTimeout: 30,
		},
		Server: ServerConfig{
			Addr:            ":3001",
			ShutdownTimeout: 10,
		},
		Journal: JournalConfig{
			Enabled: true,
			Dir:     ".jobly/journal",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks if config is valid and fills zero timeouts
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &ConfigError{
			Field:      "server.addr",
			Reason:     "Listen address is required",
			Suggestion: `Use ":3001" to listen on all interfaces`,
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return &ConfigError{
			Field:      "logging.level",
			Reason:     "Unknown level " + c.Logging.Level,
			Suggestion: "Use one of debug, info, warn, error",
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &ConfigError{
			Field:      "logging.format",
			Reason:     "Unknown format " + c.Logging.Format,
			Suggestion: "Use text or json",
		}
	}

	if c.Database.MaxConnections < 0 {
		return &ConfigError{
			Field:  "database.max_connections",
			Reason: "max_connections cannot be negative",
		}
	}

	if c.Database.MaxConnections > 0 && c.Database.MinConnections > c.Database.MaxConnections {
		return &ConfigError{
			Field:  "database.min_connections",
			Reason: "min_connections cannot exceed max_connections",
		}
	}

	if c.Database.ConnectionTimeout < 1 {
		c.Database.ConnectionTimeout = 30
	}

	if c.Server.ShutdownTimeout < 1 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Journal.Dir == "" {
		c.Journal.Dir = ".jobly/journal"
	}

	return nil
}

// ShutdownGrace returns the server shutdown timeout as a duration
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Reason     string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := "Configuration error: " + e.Field + ": " + e.Reason
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}
