package commands

import (
	"fmt"

	"github.com/dyluth/shelf/internal/printer"
	"github.com/dyluth/shelf/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new library",
	Long: `Initialize a new library with default configuration and empty collections.

Creates:
  • library.yml - Library configuration file
  • json/shelves.json, json/books.json, json/reservations.json - Empty collections

Use --force to rewrite an existing library.yml. Existing data files are kept.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Force reinitialization (rewrites library.yml, keeps data files)")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if err := scaffold.CheckExisting(initDir); err != nil {
			return printer.Error("Cannot initialize library", err.Error(), nil)
		}
	}

	printer.Step("Initializing library in %s\n", initDir)
	if err := scaffold.Initialize(initDir, forceInit, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	logger.Debug("library initialized")
	scaffold.PrintSuccess(cmd.OutOrStdout())
	return nil
}
