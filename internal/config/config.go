// ABOUTME: Configuration loading and parsing for artflow
// ABOUTME: Supports YAML files with .env loading and environment variable expansion

package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete artflow configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig holds catalog store tuning
type CatalogConfig struct {
	// SubscriberBuffer is the per-subscriber event channel size.
	// Zero means the package default.
	SubscriberBuffer int `yaml:"subscriber_buffer"`
}

// AssetsConfig holds bundled asset lookup configuration
type AssetsConfig struct {
	// Dir is searched when an artwork image reference is neither a URL
	// nor an existing filesystem path.
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists:
// a database file in the working directory and colorized info logging.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "artflow.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads a configuration file from the given path and returns a parsed
// Config. A .env file in the working directory is loaded first, and
// ${VAR_NAME} patterns in the YAML are expanded from the environment.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only exists in development setups
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Catalog.SubscriberBuffer < 0 {
		return fmt.Errorf("catalog.subscriber_buffer must not be negative")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	return nil
}
