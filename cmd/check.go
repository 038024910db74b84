// =============================================================================
// Freight Tracker - Check Command
// =============================================================================
//
// This file defines the 'check' command, which reads the configured source
// and reports header drift against the column mapping without computing
// anything else.
//
// COMMAND USAGE:
//   freight check [--json]
//
// EXIT STATUS:
//   Non-zero when a required column could not be resolved.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/internal/validation"
)

var checkJSON bool

// errHeaderCheck is returned when required columns are missing.
var errHeaderCheck = errors.New("header check failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the source headers against the column mapping",
	Long: `Fetches the configured request sheet and compares its headers with the
column mapping. Missing required columns are errors, missing optional columns
are warnings and headers nothing maps are listed for information.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rs, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		rep := rs.HeaderReport()
		if rep == nil {
			// A source without headers (e.g. an empty sheet) has nothing to check.
			rep = &validation.Report{}
		}

		app.log.Info("header check finished",
			zap.String("origin", rs.Origin()),
			zap.Int("records", rs.Len()),
			zap.Int("errors", rep.ErrorCount),
			zap.Int("warnings", rep.WarningCount),
		)

		out := cmd.OutOrStdout()
		if checkJSON {
			if err := report.WriteJSON(out, rep); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "Source: %s (%d records, mapping %s)\n", rs.Origin(), rs.Len(), app.mapping.Name)
			fmt.Fprintln(out, validation.FormatReport(rep))
		}

		if !rep.OK() {
			return fmt.Errorf("%w: %d missing required column(s)", errHeaderCheck, len(rep.MissingRequired()))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(checkCmd)
}
