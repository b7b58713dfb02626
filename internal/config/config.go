package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "library.yml"

// Storage backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// LibraryConfig represents the top-level library.yml configuration
type LibraryConfig struct {
	Version      string              `yaml:"version"`
	Storage      *StorageConfig      `yaml:"storage,omitempty"`
	Reservations *ReservationsConfig `yaml:"reservations,omitempty"`
	Log          *LogConfig          `yaml:"log,omitempty"`
}

// StorageConfig selects where collections are persisted
type StorageConfig struct {
	Backend string       `yaml:"backend,omitempty"`  // "file" (default) or "redis"
	DataDir string       `yaml:"data_dir,omitempty"` // Directory of the JSON files, relative to the config file
	Files   *FilesConfig `yaml:"files,omitempty"`
	Redis   *RedisConfig `yaml:"redis,omitempty"` // Required if backend="redis"
}

// FilesConfig names the JSON file of each collection
type FilesConfig struct {
	Shelves      string `yaml:"shelves,omitempty"`
	Books        string `yaml:"books,omitempty"`
	Reservations string `yaml:"reservations,omitempty"`
}

// RedisConfig specifies the Redis server used by the redis backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Instance string `yaml:"instance,omitempty"` // Key namespace, default "default"
}

// ReservationsConfig controls reservation checks
type ReservationsConfig struct {
	EnforceNoOverlap bool `yaml:"enforce_no_overlap,omitempty"` // Reject overlapping reservations of one book
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error (default: warn)
}

// Default returns the configuration used when no config file exists.
// It matches the historical layout: json/shelves.json, json/books.json and
// json/reservations.json in the working directory.
func Default() *LibraryConfig {
	c := &LibraryConfig{Version: "1.0"}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return c
}

// Validate performs strict validation on the configuration and applies defaults
func (c *LibraryConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}

	if c.Reservations == nil {
		c.Reservations = &ReservationsConfig{}
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %s (must be 'debug', 'info', 'warn' or 'error')", c.Log.Level)
	}

	return nil
}

// Validate checks the storage section and applies defaults
func (s *StorageConfig) Validate() error {
	if s.Backend == "" {
		s.Backend = BackendFile
	}

	if s.DataDir == "" {
		s.DataDir = "json"
	}

	if s.Files == nil {
		s.Files = &FilesConfig{}
	}
	if s.Files.Shelves == "" {
		s.Files.Shelves = "shelves.json"
	}
	if s.Files.Books == "" {
		s.Files.Books = "books.json"
	}
	if s.Files.Reservations == "" {
		s.Files.Reservations = "reservations.json"
	}

	names := map[string]string{}
	for collection, name := range map[string]string{
		"shelves":      s.Files.Shelves,
		"books":        s.Files.Books,
		"reservations": s.Files.Reservations,
	} {
		if filepath.Base(name) != name {
			return fmt.Errorf("storage.files.%s must be a file name, got %q", collection, name)
		}
		if other, exists := names[name]; exists {
			return fmt.Errorf("storage.files: %s and %s both use %q", other, collection, name)
		}
		names[name] = collection
	}

	switch s.Backend {
	case BackendFile:
	case BackendRedis:
		if s.Redis == nil || s.Redis.Addr == "" {
			return fmt.Errorf("storage.backend is 'redis' but storage.redis.addr is not set")
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db must be >= 0, got %d", s.Redis.DB)
		}
		if s.Redis.Instance == "" {
			s.Redis.Instance = "default"
		}
	default:
		return fmt.Errorf("invalid storage.backend: %s (must be 'file' or 'redis')", s.Backend)
	}

	return nil
}

// Load reads and validates library.yml from the specified path.
// A relative data_dir is resolved against the directory of the file.
func Load(path string) (*LibraryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config LibraryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !filepath.IsAbs(config.Storage.DataDir) {
		config.Storage.DataDir = filepath.Join(filepath.Dir(path), config.Storage.DataDir)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default when path is the default
// config file and it does not exist. An explicitly named file must exist.
func LoadOrDefault(path string, explicit bool) (*LibraryConfig, error) {
	config, err := Load(path)
	if err == nil {
		return config, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return nil, err
}

// ShelvesPath returns the path of the shelves file
func (c *LibraryConfig) ShelvesPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.Files.Shelves)
}

// BooksPath returns the path of the books file
func (c *LibraryConfig) BooksPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.Files.Books)
}

// ReservationsPath returns the path of the reservations file
func (c *LibraryConfig) ReservationsPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.Files.Reservations)
}
