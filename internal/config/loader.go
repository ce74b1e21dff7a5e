package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jobly-api/jobly/pkg/engine"
)

// ErrNotFound is returned by Load when no config file exists
var ErrNotFound = errors.New("config file not found")

// FileNames are the config files looked up, in order
var FileNames = []string{".jobly.yml", ".jobly.yaml", ".jobly.toml"}

// Loader handles loading and parsing .jobly.yml or .jobly.toml
type Loader struct {
	filePath string
	workDir  string
}

// NewLoader creates a new config loader. It uses the first existing file of
// FileNames, or .jobly.yml when there is none.
func NewLoader(workDir string) *Loader {
	l := &Loader{
		filePath: filepath.Join(workDir, FileNames[0]),
		workDir:  workDir,
	}
	for _, name := range FileNames {
		path := filepath.Join(workDir, name)
		if _, err := os.Stat(path); err == nil {
			l.filePath = path
			break
		}
	}
	return l
}

// WithFile points the loader at name, relative to workDir unless absolute
func (l *Loader) WithFile(name string) *Loader {
	l.filePath = l.resolvePath(name)
	return l
}

// Path returns the config file path
func (l *Loader) Path() string {
	return l.filePath
}

func (l *Loader) isTOML() bool {
	return strings.EqualFold(filepath.Ext(l.filePath), ".toml")
}

// Load reads and parses the config file. Sections missing from the file keep
// their defaults.
func (l *Loader) Load() (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(l.filePath); err != nil {
		return nil, fmt.Errorf("%w: %s\nRun 'jobly init' to create one", ErrNotFound, l.filePath)
	}

	// Read file
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if l.isTOML() {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Expand environment variables in connection string
	cfg.Database.ConnectionString = os.ExpandEnv(cfg.Database.ConnectionString)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Resolve relative paths
	cfg.Journal.Dir = l.resolvePath(cfg.Journal.Dir)

	return cfg, nil
}

// resolvePath converts relative or absolute path to absolute
func (l *Loader) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(filepath.Join(l.workDir, path))
	if err != nil {
		return filepath.Join(l.workDir, path)
	}
	return abs
}

// LoadOrDefault loads config or returns defaults
func (l *Loader) LoadOrDefault() (*Config, error) {
	cfg, err := l.Load()
	if errors.Is(err, ErrNotFound) {
		cfg = Defaults()
		cfg.Database.ConnectionString = os.ExpandEnv(cfg.Database.ConnectionString)
		cfg.Journal.Dir = l.resolvePath(cfg.Journal.Dir)
		return cfg, nil
	}
	return cfg, err
}

// Save writes config to file, as TOML when the file ends in .toml
func (l *Loader) Save(cfg *Config) error {
	var data []byte
	if l.isTOML() {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(l.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ConnectorConfig resolves the database connection:
// 1. DATABASE_URL environment variable
// 2. database.connection_string from the config file
// 3. engine defaults (localhost:5432/jobly)
// The returned source names which one was used.
func (c *Config) ConnectorConfig() (engine.ConnectorConfig, string, error) {
	conn, source, err := c.connection()
	if err != nil {
		return engine.ConnectorConfig{}, "", err
	}

	if c.Database.MaxConnections > 0 {
		conn.MaxConns = int32(c.Database.MaxConnections)
	}
	if c.Database.MinConnections > 0 {
		conn.MinConns = int32(c.Database.MinConnections)
	}
	if c.Database.ConnectionTimeout > 0 {
		conn.ConnectTimeout = time.Duration(c.Database.ConnectionTimeout) * time.Second
	}
	return conn, source, nil
}

func (c *Config) connection() (engine.ConnectorConfig, string, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		parsed, err := engine.ParseConnectionString(databaseURL)
		if err != nil {
			return engine.ConnectorConfig{}, "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return parsed, "DATABASE_URL", nil
	}

	if connStr := c.Database.ConnectionString; connStr != "" && !strings.Contains(connStr, "${") {
		parsed, err := engine.ParseConnectionString(connStr)
		if err != nil {
			return engine.ConnectorConfig{}, "", fmt.Errorf("invalid database.connection_string: %w", err)
		}
		return parsed, "config", nil
	}

	return engine.DefaultConfig(), "defaults", nil
}

// Template returns the commented content written by 'jobly init'
func Template(createdAt time.Time) string {
	return fmt.Sprintf(`# jobly configuration
# Generated at %[1]s

version: "%[2]s"
created_at: %[1]s

# Database connection settings
database:
  # Use environment variable
  connection_string: ${DATABASE_URL}
  # OR hardcode (not recommended for production)
  # connection_string: "postgresql://localhost:5432/jobly"

  # Connection pool settings
  max_connections: 10
  min_connections: 2
  connection_timeout: 30  # seconds

# HTTP API
server:
  addr: ":3001"
  shutdown_timeout: 10  # seconds

# Audit journal of create/update/delete
journal:
  enabled: true
  dir: ".jobly/journal"

# Request logs
logging:
  level: "info"   # debug, info, warn, error
  format: "text"  # text, json
`, createdAt.UTC().Format(time.RFC3339), engine.Version)
}
