// =============================================================================
// Freight Tracker - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (freight)
//   ├── summaryCmd  (freight summary)
//   ├── calendarCmd (freight calendar)
//   ├── costsCmd    (freight costs)
//   ├── checkCmd    (freight check)
//   ├── exportCmd   (freight export)
//   ├── serveCmd    (freight serve)
//   └── versionCmd  (freight version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Builds a viper instance (config.yaml, .env, FREIGHT_* environment)
//   2. Binds the persistent flags to their config keys
//   3. Sets up the zap logger
//   4. Loads the column mapping
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/logger"
	"github.com/ginjaninja78/freight-tracker/internal/normalizer"
	"github.com/ginjaninja78/freight-tracker/internal/source"
	"github.com/ginjaninja78/freight-tracker/internal/store"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appState is what every subcommand needs once the root has initialized.
type appState struct {
	cfg     *config.AppConfig
	log     *zap.Logger
	mapping *config.ColumnMapping
}

var app appState

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "freight",
	Short: "Freight Tracker - Normalize and summarize machine transport requests",
	Long: `Freight Tracker reads the transport request sheet kept by the branches
(XLSX or CSV, from a local file, an HTTP URL or S3), normalizes every row into
a typed record and answers the questions the logistics team asks of it.

Key Features:
  - Tolerant parsing of dates, money, distances and statuses
  - Status KPIs, upcoming deliveries and calendar buckets
  - Monthly cost roll-up per branch and carrier ranking
  - Header drift check against the column mapping
  - Read-only JSON API

Example Usage:
  freight summary                       # KPIs for the last 30 days
  freight costs --month 2026-03         # City costs for March
  freight calendar --week --xlsx cal.xlsx
  freight serve --config ./freight.yaml # Start the API`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (missing file is ignored)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("source", "", "Local request sheet (overrides source.path)")
	rootCmd.PersistentFlags().String("source-format", "", "Source format: csv or xlsx (overrides source.format)")
	rootCmd.PersistentFlags().String("columns", "", "Column mapping YAML (overrides columns.file)")
}

// initApp loads configuration, logger and column mapping into app.
func initApp(cmd *cobra.Command) error {
	v := config.NewViper()

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"source.path":   "source",
		"source.format": "source-format",
		"columns.file":  "columns",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Debug || verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mapping, err := config.LoadColumnMapping(cfg.ColumnsFile)
	if err != nil {
		return fmt.Errorf("failed to load column mapping: %w", err)
	}

	log.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.String("source_kind", cfg.Source.Kind),
		zap.String("source_format", cfg.Source.Format),
		zap.Int("mapping_version", mapping.Version),
	)

	app = appState{cfg: cfg, log: log, mapping: mapping}
	return nil
}

// buildStore wires the configured source and the normalizer into a store
// without loading anything yet.
func buildStore(ctx context.Context) (*store.Store, error) {
	src, err := source.New(ctx, app.cfg, app.mapping.Sheet, app.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return store.New(src, normalizer.New(app.mapping), app.log), nil
}

// openStore builds the store and performs the first load.
//
// RETURNS:
//   - The store, ready for further reloads.
//   - The published record set.
//   - An error wrapping store.ErrLoadFailure when the sheet could not be read.
func openStore(ctx context.Context) (*store.Store, *store.RecordSet, error) {
	st, err := buildStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	rs, err := st.Reload(ctx)
	if err != nil {
		return nil, nil, err
	}
	return st, rs, nil
}
