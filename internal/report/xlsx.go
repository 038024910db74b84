// =============================================================================
// Freight Tracker - Report Export
// =============================================================================
//
// This module writes aggregates and request lists to files people open in a
// spreadsheet or feed to other systems:
//
//   | Writer              | Content                                 |
//   |---------------------|-----------------------------------------|
//   | WriteCostsXLSX      | city roll-up, equipment, carriers       |
//   | WriteCalendarXLSX   | day buckets, one row per request        |
//   | WriteRequestsXML    | full request list                       |
//   | WriteJSON           | any value, indented                     |
//
// Workbooks carry values only; no cell styling is applied.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// Sheet names.
const (
	EquipmentSheet = "EQUIPAMENTOS"
	CarriersSheet  = "TRANSPORTADORAS"
	CalendarSheet  = "CALENDÁRIO"
)

// CostsSheetName returns the roll-up sheet name for a month.
func CostsSheetName(month string) string {
	return "CUSTOS " + month
}

// =============================================================================
// CITY COSTS
// =============================================================================

var costHeaders = []any{
	"CIDADE", "R$ PRÓPRIO", "R$ TERCEIRO", "QTD",
	"R$ PRÓPRIO DEMO", "R$ TERCEIRO DEMO", "QTD DEMO",
}

// CostsReport is one month of cost reporting.
type CostsReport struct {
	Month     string                    `json:"month"`
	Cities    []aggregate.CityCost      `json:"cities"`
	Equipment []aggregate.EquipmentCost `json:"equipment,omitempty"`
	Carriers  []aggregate.CarrierTotal  `json:"carriers,omitempty"`
}

// WriteCostsXLSX writes the monthly cost report as a workbook.
//
// PARAMETERS:
//   - w: Destination for the XLSX bytes.
//   - rep: The report. Cities always go on the first sheet, named after the
//     month. Equipment and Carriers get their own sheet when non-nil.
//
// RETURNS:
//   - An error if the workbook cannot be built or written.
func WriteCostsXLSX(w io.Writer, rep CostsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := CostsSheetName(rep.Month)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]any{costHeaders}
	var total aggregate.CityCost
	for _, c := range rep.Cities {
		rows = append(rows, []any{
			string(c.City),
			c.OwnSum.InexactFloat64(),
			c.ThirdPartySum.InexactFloat64(),
			c.Count,
			c.Demo.OwnSum.InexactFloat64(),
			c.Demo.ThirdPartySum.InexactFloat64(),
			c.Demo.Count,
		})
		total.OwnSum = total.OwnSum.Add(c.OwnSum)
		total.ThirdPartySum = total.ThirdPartySum.Add(c.ThirdPartySum)
		total.Count += c.Count
		total.Demo.OwnSum = total.Demo.OwnSum.Add(c.Demo.OwnSum)
		total.Demo.ThirdPartySum = total.Demo.ThirdPartySum.Add(c.Demo.ThirdPartySum)
		total.Demo.Count += c.Demo.Count
	}
	rows = append(rows, []any{
		"TOTAL",
		total.OwnSum.InexactFloat64(),
		total.ThirdPartySum.InexactFloat64(),
		total.Count,
		total.Demo.OwnSum.InexactFloat64(),
		total.Demo.ThirdPartySum.InexactFloat64(),
		total.Demo.Count,
	})
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	if rep.Equipment != nil {
		equipRows := [][]any{{"EQUIP", "R$ PRÓPRIO", "R$ TERCEIRO", "QTD FRETE", "MÉDIA"}}
		for _, e := range rep.Equipment {
			equipRows = append(equipRows, []any{
				e.Equipment,
				e.OwnSum.InexactFloat64(),
				e.ThirdPartySum.InexactFloat64(),
				e.Count,
				e.Average().Round(2).InexactFloat64(),
			})
		}
		if err := addSheet(f, EquipmentSheet, equipRows); err != nil {
			return err
		}
	}

	if rep.Carriers != nil {
		carrierRows := [][]any{{"TRANSPORTADORA", "R$ TERCEIRO", "KM", "QTD"}}
		for _, c := range rep.Carriers {
			carrierRows = append(carrierRows, []any{c.Carrier, c.ThirdPartySum.InexactFloat64(), c.DistanceKm, c.Count})
		}
		if err := addSheet(f, CarriersSheet, carrierRows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// CALENDAR
// =============================================================================

var calendarHeaders = []any{
	"DIA", "ID", "STATUS", "DEMO", "CHASSI", "CLIENTE/NOTA", "ESTÁ:", "VAI:", "LINK",
}

// WriteCalendarXLSX writes day buckets as one row per request, days in
// ascending order and requests in bucket order.
func WriteCalendarXLSX(w io.Writer, buckets map[string][]types.TransportRequest) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CalendarSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	slices.Sort(days)

	rows := [][]any{calendarHeaders}
	for _, day := range days {
		for _, rec := range buckets[day] {
			demo := ""
			if rec.IsDemo {
				demo = "SIM"
			}
			rows = append(rows, []any{
				day,
				rec.ID,
				rec.StatusCanonical.Label(),
				demo,
				strings.Join(rec.DisplayChassis(), ", "),
				rec.InvoiceRef,
				rec.OriginLabel,
				rec.DestinationLabel,
				rec.MapLink,
			})
		}
	}
	if err := writeRows(f, CalendarSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// writeRows writes rows starting at A1.
// addSheet creates sheet and fills it.
func addSheet(f *excelize.File, sheet string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}
