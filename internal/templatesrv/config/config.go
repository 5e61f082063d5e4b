// Package config loads and validates the template service configuration
// from a TOML file, and resolves the datastore credentials the publishing
// CLI reads from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Version is the supported configuration file format version.
const Version = "0.3"

// Environment variables the homepage publisher requires. Their absence is a
// hard abort before any datastore write happens.
const (
	EnvDatastoreURL      = "CAMPUSCMS_DB_URL"
	EnvDatastorePassword = "CAMPUSCMS_DB_PASSWORD"
	EnvTenantID          = "CAMPUSCMS_TENANT_ID"
)

// CacheConfig holds template cache configuration.
type CacheConfig struct {
	TTL string `toml:"ttl"` // Global template cache expiry window
}

// GetTTL returns the cache expiry window as a time.Duration.
func (c *CacheConfig) GetTTL() (time.Duration, error) {
	return ParseDuration(c.TTL)
}

// GetTTLOrDefault returns the cache expiry window, or one hour when the
// configured value is missing or invalid.
func (c *CacheConfig) GetTTLOrDefault() time.Duration {
	d, err := c.GetTTL()
	if err != nil {
		return time.Hour
	}
	return d
}

// ConfigParam holds all configuration parameters for the template service.
type ConfigParam struct {
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName     string `toml:"server_hostname"`       // Hostname for the server
	ServerPort         string `toml:"server_port"`           // Port for the query server
	HandleCORS         bool   `toml:"handle_cors"`           // Whether to handle CORS
	MaxRequestBodySize int64  `toml:"max_request_body_size"` // Maximum size of request body in bytes

	// Template cache configuration
	Cache CacheConfig `toml:"cache"`

	// Default institution for single-tenant deployments
	DefaultTenantID string `toml:"default_tenant_id"`

	// Database configuration
	DB struct {
		Host     string `toml:"host"`     // Database host
		Port     int    `toml:"port"`     // Database port
		DBName   string `toml:"dbname"`   // Database name
		User     string `toml:"user"`     // Database user
		Password string `toml:"password"` // Database password
		SSLMode  string `toml:"sslmode"`  // SSL mode for database connection
	} `toml:"db"`
}

var cfg *ConfigParam

// Config returns the current configuration.
func Config() *ConfigParam {
	return cfg
}

// DSN returns the database connection string.
func (c *ConfigParam) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.DBName, c.DB.SSLMode)
}

// DatastoreFromEnv resolves the datastore connection string from the
// environment. Both variables are required; a missing one is a
// configuration error the caller must treat as fatal.
func DatastoreFromEnv() (string, error) {
	url := os.Getenv(EnvDatastoreURL)
	if url == "" {
		return "", fmt.Errorf("%s is not set", EnvDatastoreURL)
	}
	passwd := os.Getenv(EnvDatastorePassword)
	if passwd == "" {
		return "", fmt.Errorf("%s is not set", EnvDatastorePassword)
	}
	return fmt.Sprintf("%s password=%s", url, passwd), nil
}

// TenantFromEnv resolves the institution identifier the publishing CLI
// writes under. Required; pages written under a guessed tenant would be
// invisible to the site.
func TenantFromEnv() (string, error) {
	tenant := os.Getenv(EnvTenantID)
	if tenant == "" {
		return "", fmt.Errorf("%s is not set", EnvTenantID)
	}
	return tenant, nil
}

// ParseDuration parses a duration string in the format "<number><unit>"
// where unit is one of:
//   - d: days
//   - h: hours
//   - m: minutes
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	var duration time.Duration
	switch unit {
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "h":
		duration = time.Duration(value) * time.Hour
	case "m":
		duration = time.Duration(value) * time.Minute
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

// ValidateConfig checks that all required configuration values are present
// and valid.
func ValidateConfig(cfg *ConfigParam) error {
	if err := validateConfigFormatVersion(cfg); err != nil {
		return err
	}
	if err := validateServerConfig(cfg); err != nil {
		return err
	}
	if err := validateCacheConfig(cfg); err != nil {
		return err
	}
	if err := validateDBConfig(cfg); err != nil {
		return err
	}
	return nil
}

func validateConfigFormatVersion(cfg *ConfigParam) error {
	if cfg.FormatVersion != Version {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}
	return nil
}

func validateServerConfig(cfg *ConfigParam) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	return nil
}

func validateCacheConfig(cfg *ConfigParam) error {
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "1h"
		return nil
	}
	if _, err := ParseDuration(cfg.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache.ttl: %v", err)
	}
	return nil
}

func validateDBConfig(cfg *ConfigParam) error {
	if cfg.DB.Host == "" {
		return fmt.Errorf("db.host is required")
	}
	if cfg.DB.Port <= 0 {
		return fmt.Errorf("db.port must be positive")
	}
	if cfg.DB.DBName == "" {
		return fmt.Errorf("db.dbname is required")
	}
	if cfg.DB.User == "" {
		return fmt.Errorf("db.user is required")
	}
	if cfg.DB.Password == "" {
		return fmt.Errorf("db.password is required")
	}
	if cfg.DB.SSLMode == "" {
		return fmt.Errorf("db.sslmode is required")
	}
	return nil
}

// LoadConfig loads configuration from a file.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	cfg = &ConfigParam{}
	if _, err := toml.Decode(string(content), cfg); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	return nil
}
