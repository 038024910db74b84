package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// printRequests writes one aligned line per request.
func printRequests(out io.Writer, records []types.TransportRequest) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "  (none)")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tDATE\tSTATUS\tCHASSIS\tFROM\tTO\tINVOICE")
	for _, rec := range records {
		date := "-"
		if rec.ExpectedDate != nil {
			date = aggregate.DayKey(*rec.ExpectedDate)
		}
		status := rec.StatusCanonical.Label()
		if rec.IsDemo {
			status += " (demo)"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			date,
			status,
			strings.Join(rec.DisplayChassis(), ", "),
			rec.OriginLabel,
			rec.DestinationLabel,
			rec.InvoiceRef,
		)
	}
	return tw.Flush()
}

// money renders an amount with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// parseStatusFlags converts repeated or comma-separated canonical names.
func parseStatusFlags(values []string) ([]types.Status, error) {
	var out []types.Status
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToUpper(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			st, ok := types.ParseStatus(name)
			if !ok {
				return nil, fmt.Errorf("unknown status %q", name)
			}
			out = append(out, st)
		}
	}
	return out, nil
}
