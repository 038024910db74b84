package report_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/report"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

func sampleRecords() []types.TransportRequest {
	d := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	return []types.TransportRequest{
		{
			ID: 1, Status: "RECEBIDO", StatusCanonical: types.StatusReceived,
			ChassisList: []string{"X1", "X2"}, ExpectedDate: &d,
			OriginLabel: "Castro", DestinationLabel: "Irati",
		},
		{
			ID: 2, Status: "CONCLUIDO (D)", StatusCanonical: types.StatusCompleted, IsDemo: true,
			CostOwn: decimal.NewFromInt(1500), CostCity: types.CityCastro, ExpectedDate: &d,
		},
	}
}

func TestWriteCostsXLSX(t *testing.T) {
	rep := report.CostsReport{
		Month:  "2026-03",
		Cities: aggregate.CityCostRollup(sampleRecords(), "2026-03", nil),
		Equipment: []aggregate.EquipmentCost{
			{Equipment: "TRATOR", OwnSum: decimal.NewFromInt(1000), ThirdPartySum: decimal.NewFromInt(500), Count: 2},
		},
		Carriers: []aggregate.CarrierTotal{{Carrier: "SUL", ThirdPartySum: decimal.NewFromInt(300), DistanceKm: 40, Count: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCostsXLSX(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"CUSTOS 2026-03", report.EquipmentSheet, report.CarriersSheet}, f.GetSheetList())

	equipRows, err := f.GetRows(report.EquipmentSheet)
	require.NoError(t, err)
	require.Len(t, equipRows, 2)
	assert.Equal(t, "EQUIP", equipRows[0][0])
	assert.Equal(t, []string{"TRATOR", "1000", "500", "2", "750"}, equipRows[1])

	rows, err := f.GetRows("CUSTOS 2026-03")
	require.NoError(t, err)
	require.Len(t, rows, 10, "header + 8 cities + total")
	assert.Equal(t, "CIDADE", rows[0][0])
	assert.Equal(t, []string{"CASTRO", "1500", "0", "1", "1500", "0", "1"}, rows[2])
	assert.Equal(t, "TOTAL", rows[9][0])
	assert.Equal(t, "1500", rows[9][1])

	carrierRows, err := f.GetRows(report.CarriersSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"SUL", "300", "40", "1"}, carrierRows[1])
}

func TestWriteCostsXLSX_citiesOnly(t *testing.T) {
	var buf bytes.Buffer
	rep := report.CostsReport{Month: "2026-04", Cities: aggregate.CityCostRollup(nil, "2026-04", nil)}
	require.NoError(t, report.WriteCostsXLSX(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"CUSTOS 2026-04"}, f.GetSheetList())
}

func TestWriteCalendarXLSX(t *testing.T) {
	records := sampleRecords()
	buckets := aggregate.BucketByDay(records, nil, records[0].ExpectedDate.AddDate(0, 0, -1), *records[0].ExpectedDate)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCalendarXLSX(&buf, buckets))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.CalendarSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2026-03-05", "1", "Recebido", "", "X1, X2", "", "Castro", "Irati"}, rows[1])
	assert.Equal(t, "SIM", rows[2][3])
	assert.Equal(t, types.NoChassisPlaceholder, rows[2][4])
}

func TestWriteRequestsXML(t *testing.T) {
	var buf bytes.Buffer
	opts := report.DefaultXMLOptions()
	opts.LoadID = "abc"
	require.NoError(t, report.WriteRequestsXML(&buf, sampleRecords(), opts))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<freight count="2" load="abc">`)
	assert.Contains(t, out, `<request n="2" demo="true">`)
	assert.Contains(t, out, "<Item>X1</Item>")
	assert.Contains(t, out, "<ExpectedDate>2026-03-05</ExpectedDate>")
	assert.Contains(t, out, "<CostOwn>1500</CostOwn>")
	assert.Contains(t, out, "<Item>"+types.NoChassisPlaceholder+"</Item>")

	// The document is well formed.
	var doc struct {
		Requests []struct {
			ID int `xml:"n,attr"`
		} `xml:"request"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Requests, 2)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
}
