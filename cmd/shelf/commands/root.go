package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/shelf/internal/app"
	"github.com/dyluth/shelf/internal/config"
	"github.com/dyluth/shelf/internal/printer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version string
	commit  string
	date    string

	configPath string
	verbose    bool

	logger   = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Shelf - library shelf, book and reservation manager",
	Long: `Shelf keeps track of the shelves of a library, the books placed on them
and the reservations made by readers.

Every collection is stored as a JSON array (one file per collection, or one
Redis key per collection), rewritten after each change.

Run 'shelf init' to create library.yml and an empty data directory.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging := zap.NewProductionConfig()
		logging.Level = logLevel
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		var err error
		logger, err = logging.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Errors are printed by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to library.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openLibrary loads the configuration and every collection.
func openLibrary(ctx context.Context, cmd *cobra.Command) (*app.Library, error) {
	cfg, err := config.LoadOrDefault(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, printer.Error(
			"Cannot load configuration",
			err.Error(),
			[]string{
				fmt.Sprintf("Check the syntax of %s", configPath),
				"Run 'shelf init' to create a default configuration",
			},
		)
	}

	if !verbose {
		if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			logLevel.SetLevel(level)
		}
	}

	lib, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, printer.Error("Cannot open library", err.Error(), []string{
			"Fix or remove the damaged data file",
			"Check storage settings in " + configPath,
		})
	}
	return lib, nil
}
