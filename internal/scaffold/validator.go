package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/shelf/internal/config"
)

// CheckExisting returns an error if dir already holds a library.yml
func CheckExisting(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, config.DefaultPath)); err != nil {
		return nil
	}

	return fmt.Errorf("library already initialized\n\nFound existing: %s\n\nUse 'shelf init --force' to reinitialize (this will overwrite existing configuration, data files are kept)",
		config.DefaultPath)
}
