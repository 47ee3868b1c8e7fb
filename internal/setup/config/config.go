package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
)

// CurrentVersion is the expected version of the config file.
const CurrentVersion = 1

// Storage backend names accepted in the config file.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version int           `koanf:"version"`
	Debug   Debug         `koanf:"debug"`
	Storage StorageConfig `koanf:"storage"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Directory to store log files in; empty logs to stderr only.
	LogDir string `koanf:"log_dir"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	// Backend is one of memory, redis or sqlite.
	Backend string       `koanf:"backend"`
	Redis   RedisConfig  `koanf:"redis"`
	SQLite  SQLiteConfig `koanf:"sqlite"`
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	DBIndex  int    `koanf:"db_index"`
}

// SQLiteConfig contains SQLite file configuration.
type SQLiteConfig struct {
	// Path to the database file.
	Path string `koanf:"path"`
}

// LoadConfig loads the configuration from the first search path holding
// a communitystore.toml file and returns it along with the path used.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".communitystore",
		homeDir + "/.communitystore/config",
		"/etc/communitystore/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/communitystore.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: communitystore.toml", ErrConfigFileNotFound)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion(config.Version, CurrentVersion); err != nil {
		return nil, "", err
	}

	if err := validateStorage(&config.Storage); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion verifies the config file matches the version this
// build expects.
func checkConfigVersion(current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: communitystore.toml", ErrConfigVersionMissing)
	}

	if current != expected {
		return fmt.Errorf("%w: communitystore.toml (got: %d, expected: %d)",
			ErrConfigVersionMismatch, current, expected)
	}

	return nil
}

// validateStorage checks the backend selection, defaulting to memory
// when none is set.
func validateStorage(storage *StorageConfig) error {
	switch storage.Backend {
	case "":
		storage.Backend = BackendMemory
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, storage.Backend)
	}

	return nil
}
