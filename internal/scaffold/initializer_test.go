package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/shelf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInitialize(t *testing.T) {
	t.Run("fresh initialization", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer

		require.NoError(t, Initialize(dir, false, &out))

		for _, name := range []string{
			"library.yml",
			filepath.Join("json", "shelves.json"),
			filepath.Join("json", "books.json"),
			filepath.Join("json", "reservations.json"),
		} {
			_, err := os.Stat(filepath.Join(dir, name))
			assert.NoError(t, err, "expected %s to exist", name)
		}

		data, err := os.ReadFile(filepath.Join(dir, "json", "shelves.json"))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(bytes.TrimSpace(data)))

		cfg, err := config.Load(filepath.Join(dir, "library.yml"))
		require.NoError(t, err)
		assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
		assert.Equal(t, filepath.Join(dir, "json"), cfg.Storage.DataDir)
		assert.False(t, cfg.Reservations.EnforceNoOverlap)
	})

	t.Run("force replaces config and keeps data", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "library.yml"), []byte("old content"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "json"), 0755))
		existing := []byte(`[{"book_id": 1, "title": "Dune", "authors": ["Frank Herbert"]}]`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "json", "books.json"), existing, 0644))

		var out bytes.Buffer
		require.NoError(t, Initialize(dir, true, &out))
		assert.Contains(t, out.String(), "Removing existing library.yml")

		content, err := os.ReadFile(filepath.Join(dir, "library.yml"))
		require.NoError(t, err)
		assert.NotEqual(t, "old content", string(content))

		books, err := os.ReadFile(filepath.Join(dir, "json", "books.json"))
		require.NoError(t, err)
		assert.Equal(t, existing, books)
	})
}

func TestHandleForce(t *testing.T) {
	t.Run("no existing config", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, handleForce(t.TempDir(), &out))
		assert.Empty(t, out.String())
	})

	t.Run("removes existing config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "library.yml")
		require.NoError(t, os.WriteFile(path, []byte("version: '1.0'"), 0644))

		var out bytes.Buffer
		require.NoError(t, handleForce(dir, &out))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestGetTemplateFiles(t *testing.T) {
	dir := t.TempDir()
	files, err := getTemplateFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, filepath.Join(dir, "library.yml"), files[0].Path)
	for _, f := range files {
		assert.NotEmpty(t, f.Content, "%s has no content", f.Path)
		assert.Equal(t, os.FileMode(0644), f.Permissions)
	}

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(files[0].Content, &parsed))
	assert.Equal(t, "1.0", parsed["version"])
}

func TestValidateCreatedFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "valid", content: "version: \"1.0\"\n"},
		{name: "invalid YAML", content: "version: [\n", wantErr: "not valid YAML"},
		{name: "invalid configuration", content: "version: \"2.0\"\n", wantErr: "not a valid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "library.yml"), []byte(tt.content), 0644))

			err := validateCreatedFiles(dir)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
