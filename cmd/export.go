// =============================================================================
// Freight Tracker - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes the normalized request
// set to a file for downstream systems.
//
// COMMAND USAGE:
//   freight export [flags]
//
// FLAGS:
//   --format  : xml or json (default xml)
//   --out     : Output directory (default "exports")
//   --name    : File name pattern, see utils.GenerateOutputFileName
//   --status  : Canonical statuses to keep (repeatable; default all)
//   --demo    : all, exclude or only (default all)
//   --dry-run : Report what would be written without writing
//
// PIPELINE:
//   1. Load the configured source through the store
//   2. Filter by status and demo marker
//   3. Order for the request board (open, suspended, completed)
//   4. Write to a temp file and rename into place
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	exportFormat   string
	exportOutDir   string
	exportName     string
	exportStatuses []string
	exportDemo     string
	exportDryRun   bool
)

// =============================================================================
// EXPORT COMMAND DEFINITION
// =============================================================================

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the normalized requests to an XML or JSON file",
	Long: `The export command loads the request sheet, keeps the requests matching
the filters and writes them in board order to a new file in the output
directory. The file is written to a temporary name first and only renamed
into place once complete.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xml", "Output format: xml or json")
	exportCmd.Flags().StringVar(&exportOutDir, "out", "exports", "Output directory")
	exportCmd.Flags().StringVar(&exportName, "name", "solicitacoes_{timestamp}", "File name pattern ({uuid}, {timestamp}, {date}, {time}, {load})")
	exportCmd.Flags().StringSliceVar(&exportStatuses, "status", nil, "Canonical statuses to keep (default all)")
	exportCmd.Flags().StringVar(&exportDemo, "demo", "all", "Demonstration requests: all, exclude or only")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Report what would be written without writing")

	rootCmd.AddCommand(exportCmd)
}

// =============================================================================
// EXPORT LOGIC
// =============================================================================

func runExport(cmd *cobra.Command) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != "xml" && format != "json" {
		return fmt.Errorf("--format must be xml or json, got %q", exportFormat)
	}

	statuses, err := parseStatusFlags(exportStatuses)
	if err != nil {
		return err
	}
	demo, err := aggregate.ParseDemoFilter(exportDemo)
	if err != nil {
		return fmt.Errorf("invalid --demo: %w", err)
	}

	_, rs, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	records := aggregate.PendingOrder(aggregate.Search(rs.All(), aggregate.Query{
		Statuses: statuses,
		Demo:     demo,
	}))

	name := utils.GenerateOutputFileName(exportName, "."+format, map[string]string{"load": rs.LoadID()})
	path := filepath.Join(exportOutDir, name)

	out := cmd.OutOrStdout()
	if exportDryRun {
		fmt.Fprintf(out, "[DRY RUN] would write %d of %d request(s) to %s\n", len(records), rs.Len(), path)
		return nil
	}

	err = utils.WriteFileAtomic(path, func(w io.Writer) error {
		if format == "json" {
			return report.WriteJSON(w, records)
		}
		opts := report.DefaultXMLOptions()
		opts.LoadID = rs.LoadID()
		return report.WriteRequestsXML(w, records, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to export requests: %w", err)
	}

	app.log.Info("requests exported",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("records", len(records)),
		zap.String("load_id", rs.LoadID()),
	)
	fmt.Fprintf(out, "Wrote %d request(s) to %s\n", len(records), path)
	return nil
}

