// =============================================================================
// Freight Tracker - Summary Command
// =============================================================================
//
// COMMAND USAGE:
//   freight summary [flags]
//
// FLAGS:
//   --days          : Trailing window length in days (default 30)
//   --upcoming-days : Horizon of the upcoming lists (default 14)
//   --include-demo  : Count demonstration requests too
//   --json          : Print the summary as JSON
//
// OUTPUT:
//   Status counts over the window, then the scheduled and in-transit
//   requests expected within the upcoming horizon.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

var (
	summaryDays         int
	summaryUpcomingDays int
	summaryIncludeDemo  bool
	summaryJSON         bool
)

// Summary is the JSON shape of the summary command.
type Summary struct {
	LoadID      string                   `json:"loadId"`
	Start       string                   `json:"start"`
	End         string                   `json:"end"`
	ExcludeDemo bool                     `json:"excludeDemo"`
	Counts      map[types.Status]int     `json:"counts"`
	Scheduled   []types.TransportRequest `json:"scheduled"`
	InTransit   []types.TransportRequest `json:"inTransit"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show status KPIs and upcoming deliveries",
	Long: `Loads the configured request sheet and prints how many requests are in
each status within the trailing window, followed by the scheduled and
in-transit requests expected in the next days. Demonstration requests are
excluded unless --include-demo is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryDays <= 0 {
			return fmt.Errorf("--days must be positive, got %d", summaryDays)
		}

		_, rs, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		records := rs.All()

		today := time.Now()
		start := today.AddDate(0, 0, -(summaryDays - 1))
		excludeDemo := !summaryIncludeDemo

		s := Summary{
			LoadID:      rs.LoadID(),
			Start:       aggregate.DayKey(start),
			End:         aggregate.DayKey(today),
			ExcludeDemo: excludeDemo,
			Counts:      aggregate.StatusCounts(records, start, today, excludeDemo),
			Scheduled:   aggregate.Upcoming(records, types.StatusScheduled, today, summaryUpcomingDays, excludeDemo),
			InTransit:   aggregate.Upcoming(records, types.StatusInTransit, today, summaryUpcomingDays, excludeDemo),
		}

		app.log.Info("summary computed",
			zap.String("load_id", s.LoadID),
			zap.Int("records", rs.Len()),
			zap.String("start", s.Start),
			zap.String("end", s.End),
		)

		out := cmd.OutOrStdout()
		if summaryJSON {
			return report.WriteJSON(out, s)
		}
		return printSummary(out, s)
	},
}

func printSummary(out io.Writer, s Summary) error {
	fmt.Fprintf(out, "Window %s .. %s", s.Start, s.End)
	if s.ExcludeDemo {
		fmt.Fprint(out, " (demos excluded)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, st := range types.AllStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", st.Label(), s.Counts[st])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s (next %d days)\n", types.StatusScheduled.Label(), summaryUpcomingDays)
	if err := printRequests(out, s.Scheduled); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s (next %d days)\n", types.StatusInTransit.Label(), summaryUpcomingDays)
	return printRequests(out, s.InTransit)
}

func init() {
	summaryCmd.Flags().IntVar(&summaryDays, "days", 30, "Trailing window length in days")
	summaryCmd.Flags().IntVar(&summaryUpcomingDays, "upcoming-days", 14, "Horizon of the upcoming lists in days")
	summaryCmd.Flags().BoolVar(&summaryIncludeDemo, "include-demo", false, "Count demonstration requests too")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the summary as JSON")

	rootCmd.AddCommand(summaryCmd)
}
