package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "library.yml")

	validConfig := `version: "1.0"
storage:
  backend: file
  data_dir: data
  files:
    shelves: etageres.json
reservations:
  enforce_no_overlap: true
log:
  level: debug
`
	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, BackendFile, config.Storage.Backend)
	assert.Equal(t, filepath.Join(tmpDir, "data"), config.Storage.DataDir)
	assert.Equal(t, filepath.Join(tmpDir, "data", "etageres.json"), config.ShelvesPath())
	assert.Equal(t, filepath.Join(tmpDir, "data", "books.json"), config.BooksPath())
	assert.Equal(t, filepath.Join(tmpDir, "data", "reservations.json"), config.ReservationsPath())
	assert.True(t, config.Reservations.EnforceNoOverlap)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoad_MinimalConfigAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "library.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`version: "1.0"`), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, config.Storage.Backend)
	assert.Equal(t, filepath.Join(tmpDir, "json"), config.Storage.DataDir)
	assert.Equal(t, "shelves.json", config.Storage.Files.Shelves)
	assert.False(t, config.Reservations.EnforceNoOverlap)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoad_AbsoluteDataDirKept(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "elsewhere")
	configPath := filepath.Join(tmpDir, "library.yml")
	content := "version: \"1.0\"\nstorage:\n  data_dir: " + dataDir + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, dataDir, config.Storage.DataDir)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/library.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "library.yml")

	invalidYAML := `version: "1.0"
storage:
  - this is invalid
    yaml syntax
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0644))

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "library.yml")

	t.Run("implicit missing file falls back to defaults", func(t *testing.T) {
		config, err := LoadOrDefault(missing, false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("json", "shelves.json"), config.ShelvesPath())
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := LoadOrDefault(missing, true)
		assert.ErrorContains(t, err, "failed to read config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  LibraryConfig
		wantErr string
	}{
		{
			name:    "unsupported version",
			config:  LibraryConfig{Version: "2.0"},
			wantErr: "unsupported version: 2.0",
		},
		{
			name:    "unknown backend",
			config:  LibraryConfig{Version: "1.0", Storage: &StorageConfig{Backend: "s3"}},
			wantErr: "invalid storage.backend: s3",
		},
		{
			name:    "redis without address",
			config:  LibraryConfig{Version: "1.0", Storage: &StorageConfig{Backend: BackendRedis}},
			wantErr: "storage.redis.addr is not set",
		},
		{
			name: "negative redis db",
			config: LibraryConfig{Version: "1.0", Storage: &StorageConfig{
				Backend: BackendRedis, Redis: &RedisConfig{Addr: "localhost:6379", DB: -1},
			}},
			wantErr: "storage.redis.db must be >= 0",
		},
		{
			name: "file name with directory",
			config: LibraryConfig{Version: "1.0", Storage: &StorageConfig{
				Files: &FilesConfig{Books: "../books.json"},
			}},
			wantErr: "storage.files.books must be a file name",
		},
		{
			name: "two collections in one file",
			config: LibraryConfig{Version: "1.0", Storage: &StorageConfig{
				Files: &FilesConfig{Books: "data.json", Reservations: "data.json"},
			}},
			wantErr: "both use \"data.json\"",
		},
		{
			name:    "bad log level",
			config:  LibraryConfig{Version: "1.0", Log: &LogConfig{Level: "chatty"}},
			wantErr: "invalid log.level: chatty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RedisDefaults(t *testing.T) {
	config := LibraryConfig{Version: "1.0", Storage: &StorageConfig{
		Backend: BackendRedis, Redis: &RedisConfig{Addr: "localhost:6379"},
	}}
	require.NoError(t, config.Validate())
	assert.Equal(t, "default", config.Storage.Redis.Instance)
}
