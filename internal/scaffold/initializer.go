package scaffold

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dyluth/shelf/internal/config"
	"github.com/dyluth/shelf/pkg/library"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize creates library.yml and an empty data directory in dir.
// If force is true, an existing library.yml is replaced. Existing data files
// are never overwritten.
func Initialize(dir string, force bool, out io.Writer) error {
	if force {
		if err := handleForce(dir, out); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles(dir)
	if err != nil {
		return err
	}

	if err := createDirectories(dir); err != nil {
		return err
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	return validateCreatedFiles(dir)
}

// handleForce removes an existing library.yml
func handleForce(dir string, out io.Writer) error {
	path := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "⚠️  Removing existing %s...\n", config.DefaultPath)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", config.DefaultPath, err)
		}
	}
	return nil
}

// getTemplateFiles returns library.yml plus an empty collection file for
// every collection that does not exist yet.
func getTemplateFiles(dir string) ([]FileInfo, error) {
	libraryYml, err := templatesFS.ReadFile("templates/library.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read library.yml template: %w", err)
	}
	files := []FileInfo{{
		Path:        filepath.Join(dir, config.DefaultPath),
		Content:     libraryYml,
		Permissions: 0644,
	}}

	defaults := config.Default()
	emptyShelves, err := library.EncodeShelves(nil)
	if err != nil {
		return nil, err
	}
	emptyBooks, err := library.EncodeBooks(nil)
	if err != nil {
		return nil, err
	}
	emptyReservations, err := library.EncodeReservations(nil)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name    string
		content []byte
	}{
		{defaults.Storage.Files.Shelves, emptyShelves},
		{defaults.Storage.Files.Books, emptyBooks},
		{defaults.Storage.Files.Reservations, emptyReservations},
	} {
		path := filepath.Join(dir, defaults.Storage.DataDir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		files = append(files, FileInfo{Path: path, Content: f.content, Permissions: 0644})
	}

	return files, nil
}

// createDirectories creates the data directory
func createDirectories(dir string) error {
	dataDir := filepath.Join(dir, config.Default().Storage.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dataDir, err)
	}
	return nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// validateCreatedFiles checks that library.yml parses and loads
func validateCreatedFiles(dir string) error {
	path := filepath.Join(dir, config.DefaultPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", config.DefaultPath, err)
	}

	var yamlData interface{}
	if err := yaml.Unmarshal(content, &yamlData); err != nil {
		return fmt.Errorf("created %s is not valid YAML: %w", config.DefaultPath, err)
	}

	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("created %s is not a valid configuration: %w", config.DefaultPath, err)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess(out io.Writer) {
	defaults := config.Default()
	fmt.Fprintln(out, "\n✅ Successfully initialized library!")
	fmt.Fprintln(out, "\nCreated:")
	fmt.Fprintf(out, "  ✓ %s\n", config.DefaultPath)
	fmt.Fprintf(out, "  ✓ %s/\n", defaults.Storage.DataDir)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Add books with 'shelf books add --title ... --author ...'")
	fmt.Fprintln(out, "  2. Add shelves with 'shelf shelves add --number 1 --letter A'")
	fmt.Fprintln(out, "  3. Place books with 'shelf shelves add-book <aisle> <book-id>'")
}
