package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// MaxUploadSize is the hard cap for uploaded files (100MB).
const MaxUploadSize = 100 * 1024 * 1024

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Cleanup     CleanupConfig `toml:"cleanup"`
	Logging     LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger  BadgerConfig `toml:"badger"`
	Uploads string       `toml:"uploads"` // Directory holding uploaded PDF files
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// AuthConfig contains token signing settings and the admin seed account
type AuthConfig struct {
	Secret        string `toml:"secret"`          // Token signing secret
	TokenTTLHours int    `toml:"token_ttl_hours"` // Session token lifetime (default 24)
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
	AdminName     string `toml:"admin_name"`
}

// CleanupConfig controls the orphaned-document reconciliation job
type CleanupConfig struct {
	RunOnStartup bool   `toml:"run_on_startup"`
	Schedule     string `toml:"schedule"` // Optional cron schedule, empty disables recurring runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 5000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			Uploads: "./uploads",
		},
		Auth: AuthConfig{
			Secret:        "your-secret-key", // Override in production
			TokenTTLHours: 24,
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
			AdminName:     "Admin User",
		},
		Cleanup: CleanupConfig{
			RunOnStartup: true,
			Schedule:     "", // e.g. "0 3 * * *" for nightly runs
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SATCHEL_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SATCHEL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SATCHEL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("SATCHEL_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if uploads := os.Getenv("SATCHEL_UPLOADS_DIR"); uploads != "" {
		config.Storage.Uploads = uploads
	}

	if secret := os.Getenv("SATCHEL_AUTH_SECRET"); secret != "" {
		config.Auth.Secret = secret
	}
	if email := os.Getenv("SATCHEL_ADMIN_EMAIL"); email != "" {
		config.Auth.AdminEmail = email
	}
	if password := os.Getenv("SATCHEL_ADMIN_PASSWORD"); password != "" {
		config.Auth.AdminPassword = password
	}
	if name := os.Getenv("SATCHEL_ADMIN_NAME"); name != "" {
		config.Auth.AdminName = name
	}

	if schedule := os.Getenv("SATCHEL_CLEANUP_SCHEDULE"); schedule != "" {
		config.Cleanup.Schedule = schedule
	}

	if level := os.Getenv("SATCHEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
