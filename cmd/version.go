// =============================================================================
// Freight Tracker - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   freight version [--json]
//
// Prints the release, the VCS revision recorded by the Go toolchain and the
// version of the column mapping compiled into the binary. The mapping version
// is what `freight check` compares a sheet against when no --columns file is
// given, so it belongs next to the release when reporting header drift.
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/report"
)

// Version and BuildDate are overridden at link time:
//
//	go build -ldflags "-X github.com/ginjaninja78/freight-tracker/cmd.Version=0.5.0 \
//	  -X github.com/ginjaninja78/freight-tracker/cmd.BuildDate=2026-03-01"
var (
	Version   = "0.4.0"
	BuildDate = "unknown"
)

var versionJSON bool

// buildInfo describes the running binary.
type buildInfo struct {
	Version        string `json:"version"`
	BuildDate      string `json:"buildDate"`
	Revision       string `json:"revision,omitempty"`
	Modified       bool   `json:"modified,omitempty"`
	GoVersion      string `json:"goVersion"`
	ColumnsVersion int    `json:"columnsVersion"`
}

// currentBuild collects the link-time values and whatever VCS stamping the
// toolchain embedded.
func currentBuild() buildInfo {
	info := buildInfo{
		Version:        Version,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		ColumnsVersion: config.DefaultColumnMapping().Version,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Revision = s.Value
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the release, revision and column mapping version",
	Args:  cobra.NoArgs,

	// No configuration is needed, so skip the root initialization.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		out := cmd.OutOrStdout()
		if versionJSON {
			return report.WriteJSON(out, info)
		}

		rev := info.Revision
		switch {
		case rev == "":
			rev = "unknown"
		case len(rev) > 12:
			rev = rev[:12]
		}
		if info.Modified {
			rev += " (dirty)"
		}

		fmt.Fprintf(out, "Freight Tracker %s\n", info.Version)
		fmt.Fprintf(out, "  built     %s\n", info.BuildDate)
		fmt.Fprintf(out, "  revision  %s\n", rev)
		fmt.Fprintf(out, "  go        %s\n", info.GoVersion)
		fmt.Fprintf(out, "  columns   v%d (embedded)\n", info.ColumnsVersion)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print the build information as JSON")
	rootCmd.AddCommand(versionCmd)
}
