// =============================================================================
// Freight Tracker - Calendar Command
// =============================================================================
//
// COMMAND USAGE:
//   freight calendar [flags]
//
// FLAGS:
//   --week    : Monday..Saturday week containing --date (default)
//   --month   : Calendar month containing --date
//   --date    : Reference day, YYYY-MM-DD (default today)
//   --status  : Canonical statuses to include (repeatable; default all)
//   --demo    : all, exclude or only (default all)
//   --xlsx    : Also write the buckets to an XLSX workbook
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/pkg/utils"
)

var (
	calendarWeek     bool
	calendarMonth    bool
	calendarDate     string
	calendarStatuses []string
	calendarDemo     string
	calendarXLSX     string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List requests per expected day",
	Long: `Groups the requests by expected date over a week (Monday to Saturday)
or a calendar month and prints each day. Use --xlsx to write the same
buckets to a workbook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if calendarWeek && calendarMonth {
			return errors.New("--week and --month are mutually exclusive")
		}

		ref := time.Now()
		if calendarDate != "" {
			d, err := aggregate.ParseDayKey(calendarDate)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			ref = d
		}

		statuses, err := parseStatusFlags(calendarStatuses)
		if err != nil {
			return err
		}
		demo, err := aggregate.ParseDemoFilter(calendarDemo)
		if err != nil {
			return fmt.Errorf("invalid --demo: %w", err)
		}

		start, end := aggregate.WeekRange(ref)
		if calendarMonth {
			start, end = aggregate.MonthRange(ref)
		}

		_, rs, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		buckets := aggregate.BucketByDay(aggregate.FilterDemo(rs.All(), demo), statuses, start, end)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Calendar %s .. %s\n", aggregate.DayKey(start), aggregate.DayKey(end))
		for _, day := range aggregate.Days(start, end) {
			key := aggregate.DayKey(day)
			fmt.Fprintf(out, "\n%s %s\n", key, day.Weekday())
			if err := printRequests(out, buckets[key]); err != nil {
				return err
			}
		}

		if calendarXLSX != "" {
			err := utils.WriteFileAtomic(calendarXLSX, func(w io.Writer) error {
				return report.WriteCalendarXLSX(w, buckets)
			})
			if err != nil {
				return fmt.Errorf("failed to write calendar workbook: %w", err)
			}
			app.log.Info("calendar workbook written",
				zap.String("path", calendarXLSX),
				zap.Int("days", len(buckets)),
			)
		}
		return nil
	},
}

func init() {
	calendarCmd.Flags().BoolVar(&calendarWeek, "week", false, "Show the Monday..Saturday week (default)")
	calendarCmd.Flags().BoolVar(&calendarMonth, "month", false, "Show the whole calendar month")
	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "Reference day YYYY-MM-DD (default today)")
	calendarCmd.Flags().StringSliceVar(&calendarStatuses, "status", nil, "Canonical statuses to include (default all)")
	calendarCmd.Flags().StringVar(&calendarDemo, "demo", "all", "Demonstration requests: all, exclude or only")
	calendarCmd.Flags().StringVar(&calendarXLSX, "xlsx", "", "Write the buckets to this XLSX file")

	rootCmd.AddCommand(calendarCmd)
}
