package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExisting(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(dir string)
		wantErr bool
	}{
		{
			name:    "no existing files",
			setup:   func(dir string) {},
			wantErr: false,
		},
		{
			name: "existing library.yml",
			setup: func(dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "library.yml"), []byte("version: '1.0'"), 0644))
			},
			wantErr: true,
		},
		{
			name: "existing data directory only",
			setup: func(dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "json"), 0755))
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(dir)

			err := CheckExisting(dir)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "library.yml")
				assert.Contains(t, err.Error(), "shelf init --force")
				return
			}
			assert.NoError(t, err)
		})
	}
}
