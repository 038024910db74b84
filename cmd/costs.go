// =============================================================================
// Freight Tracker - Costs Command
// =============================================================================
//
// COMMAND USAGE:
//   freight costs [flags]
//
// FLAGS:
//   --month    : Month to roll up, YYYY-MM (default current month)
//   --carriers : Number of carriers in the ranking (default 10, 0 = all)
//   --xlsx     : Also write the roll-up to an XLSX workbook
//   --json     : Print the roll-up as JSON
//
// Only COMPLETED requests are counted. Cities are attributed by cost city,
// equipment by the EQUIP column (blank goes to OUTROS).
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/pkg/utils"
)

var (
	costsMonth    string
	costsCarriers int
	costsXLSX     string
	costsJSON     bool
)

// CostsOutput is the JSON shape of the costs command.
type CostsOutput struct {
	LoadID string `json:"loadId"`
	report.CostsReport
}

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Roll up completed request costs per city for a month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month := costsMonth
		if month == "" {
			month = aggregate.MonthKey(time.Now())
		}
		if _, err := aggregate.ParseMonthKey(month); err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}

		st, rs, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		records := rs.All()

		result := CostsOutput{
			LoadID: rs.LoadID(),
			CostsReport: report.CostsReport{
				Month:     month,
				Cities:    aggregate.CityCostRollup(records, month, st.Normalizer().Cities()),
				Equipment: aggregate.EquipmentCosts(records, month),
				Carriers:  aggregate.CarrierRanking(records, month, costsCarriers),
			},
		}

		if costsXLSX != "" {
			err := utils.WriteFileAtomic(costsXLSX, func(w io.Writer) error {
				return report.WriteCostsXLSX(w, result.CostsReport)
			})
			if err != nil {
				return fmt.Errorf("failed to write costs workbook: %w", err)
			}
			app.log.Info("costs workbook written",
				zap.String("path", costsXLSX),
				zap.String("month", month),
			)
		}

		out := cmd.OutOrStdout()
		if costsJSON {
			return report.WriteJSON(out, result)
		}
		return printCosts(out, result)
	},
}

func printCosts(out io.Writer, c CostsOutput) error {
	fmt.Fprintf(out, "Costs %s (completed requests)\n\n", c.Month)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CITY\tOWN\tTHIRD PARTY\tTOTAL\tREQUESTS\tDEMO\t")
	var own, third decimal.Decimal
	count := 0
	for _, cc := range c.Cities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t\n",
			cc.City, money(cc.OwnSum), money(cc.ThirdPartySum), money(cc.Total()), cc.Count, cc.Demo.Count)
		own = own.Add(cc.OwnSum)
		third = third.Add(cc.ThirdPartySum)
		count += cc.Count
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\t%d\t\t\n", money(own), money(third), money(own.Add(third)), count)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(c.Equipment) > 0 {
		fmt.Fprintln(out, "\nEquipment")
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "EQUIP\tOWN\tTHIRD PARTY\tREQUESTS\tAVERAGE\t")
		for _, e := range c.Equipment {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t\n",
				e.Equipment, money(e.OwnSum), money(e.ThirdPartySum), e.Count, money(e.Average()))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(c.Carriers) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nCarriers")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CARRIER\tTHIRD PARTY\tKM\tREQUESTS\t")
	for _, ct := range c.Carriers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t\n", ct.Carrier, money(ct.ThirdPartySum), ct.DistanceKm, ct.Count)
	}
	return tw.Flush()
}

func init() {
	costsCmd.Flags().StringVar(&costsMonth, "month", "", "Month to roll up, YYYY-MM (default current month)")
	costsCmd.Flags().IntVar(&costsCarriers, "carriers", 10, "Number of carriers in the ranking (0 = all)")
	costsCmd.Flags().StringVar(&costsXLSX, "xlsx", "", "Write the roll-up to this XLSX file")
	costsCmd.Flags().BoolVar(&costsJSON, "json", false, "Print the roll-up as JSON")

	rootCmd.AddCommand(costsCmd)
}
