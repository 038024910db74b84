package normalizer_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/normalizer"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

func fullRow() types.RawRow {
	return types.RawRow{
		"STATUS":        "CONCLUIDO (D)",
		"FRETE":         "TERCEIRO - TRANSPORTADORA SUL",
		"HR":            "08:00",
		"KM":            "1.250 km",
		"R$ PROP":       "",
		"R$ TERC":       "R$ 2.345,67",
		"CHASSI":        "CH1; CH2,  CH3",
		"PREV":          "05/03/2026",
		"REAL":          "07/03/2026",
		"CLIENTE/NOTA":  "AGRO X / NF 123",
		"SOLICITANTE":   "Marcos",
		"ESTÁ:":         "Pátio Castro",
		"VAI:":          "Fazenda em Tibagi",
		"ESTÁ EM:":      "https://maps.app.goo.gl/abc",
		"FILIAL CUSTOS": "Irati",
		"TIPO":          "MAQUINA",
		"OBS":           "  frágil ",
	}
}

func TestNormalize_allFields(t *testing.T) {
	n := normalizer.New(nil)
	rec := n.Normalize(fullRow(), 4)

	assert.Equal(t, 5, rec.ID)
	assert.Equal(t, "CONCLUIDO (D)", rec.Status)
	assert.Equal(t, types.StatusCompleted, rec.StatusCanonical)
	assert.True(t, rec.IsDemo)
	assert.Equal(t, "TERCEIRO - TRANSPORTADORA SUL", rec.CarrierMode)
	assert.Equal(t, 1250, rec.DistanceKm)
	assert.True(t, rec.CostOwn.IsZero())
	assert.True(t, decimal.RequireFromString("2345.67").Equal(rec.CostThirdParty))
	assert.Equal(t, []string{"CH1", "CH2", "CH3"}, rec.ChassisList)

	require.NotNil(t, rec.ExpectedDate)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local), *rec.ExpectedDate)
	require.NotNil(t, rec.ActualDate)
	assert.Equal(t, 7, rec.ActualDate.Day())

	assert.Equal(t, "AGRO X / NF 123", rec.InvoiceRef)
	assert.Equal(t, "Marcos", rec.Requester)
	assert.Equal(t, "Pátio Castro", rec.OriginLabel)
	assert.Equal(t, "Fazenda em Tibagi", rec.DestinationLabel)
	assert.Equal(t, types.CityCastro, rec.OriginCity)
	assert.Equal(t, types.CityTibagi, rec.DestinationCity)
	assert.Equal(t, types.CityIrati, rec.CostCity)
	assert.Equal(t, "https://maps.app.goo.gl/abc", rec.MapLink)
	assert.Equal(t, "frágil", rec.Notes)
	assert.Equal(t, "08:00", rec.Hours)
	assert.Equal(t, "MAQUINA", rec.Kind)
}

// TestNormalize_malformedRowDegrades verifies that garbage never aborts and
// every field falls back to its default.
func TestNormalize_malformedRowDegrades(t *testing.T) {
	n := normalizer.New(nil)
	rec := n.Normalize(types.RawRow{
		"STATUS":  "???",
		"KM":      "longe",
		"R$ PROP": "muito",
		"PREV":    "amanhã",
		"CHASSI":  "",
	}, 0)

	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, types.StatusUnknown, rec.StatusCanonical)
	assert.Equal(t, 0, rec.DistanceKm)
	assert.True(t, rec.CostOwn.IsZero())
	assert.Nil(t, rec.ExpectedDate)
	assert.Empty(t, rec.ChassisList)
	assert.Equal(t, []string{types.NoChassisPlaceholder}, rec.DisplayChassis())
	assert.Equal(t, types.City(""), rec.CostCity)
}

func TestNormalize_emptyRow(t *testing.T) {
	rec := normalizer.New(nil).Normalize(types.RawRow{}, 9)
	assert.Equal(t, 10, rec.ID)
	assert.Equal(t, types.StatusUnknown, rec.StatusCanonical)
	assert.Empty(t, rec.MapLink)
}

func TestNormalize_isIdempotent(t *testing.T) {
	n := normalizer.New(nil)
	row := fullRow()

	first := n.Normalize(row, 3)
	second := n.Normalize(row, 3)
	assert.Equal(t, first, second)
}

func TestNormalize_aliasFallbackOrder(t *testing.T) {
	n := normalizer.New(nil)

	rec := n.Normalize(types.RawRow{
		"ESTÁ:":     "",
		"ESTÃO EM:": "Guarapuava",
		"VAI PARA:": "Arapoti",
		"PREVISÃO":  "10/03/2026",
		"NOTA":      "NF 9",
	}, 0)

	assert.Equal(t, "Guarapuava", rec.OriginLabel)
	assert.Equal(t, types.CityGuarapuava, rec.OriginCity)
	assert.Equal(t, types.CityArapoti, rec.DestinationCity)
	require.NotNil(t, rec.ExpectedDate)
	assert.Equal(t, 10, rec.ExpectedDate.Day())
	assert.Equal(t, "NF 9", rec.InvoiceRef)
}

func TestNormalize_headerDriftInCaseAndAccents(t *testing.T) {
	rec := normalizer.New(nil).Normalize(types.RawRow{
		"Status": "em rota",
		"Está:":  "Castro",
		"prev":   "01/04/2026",
	}, 0)

	assert.Equal(t, types.StatusInTransit, rec.StatusCanonical)
	assert.Equal(t, types.CityCastro, rec.OriginCity)
	require.NotNil(t, rec.ExpectedDate)
}

func TestNormalize_mapLinkPriority(t *testing.T) {
	n := normalizer.New(nil)

	fromOrigin := n.Normalize(types.RawRow{
		"ESTÁ:": "https://maps/origin",
		"VAI:":  "https://maps/dest",
	}, 0)
	assert.Equal(t, "https://maps/origin", fromOrigin.MapLink)

	fromDestination := n.Normalize(types.RawRow{
		"ESTÁ:": "Castro",
		"VAI:":  "cliente https://maps/dest",
	}, 0)
	assert.Equal(t, "https://maps/dest", fromDestination.MapLink)

	fromLocation := n.Normalize(types.RawRow{
		"LOCALIZAÇÃO": "https://maps/loc",
		"ESTÁ:":       "https://maps/origin",
	}, 0)
	assert.Equal(t, "https://maps/loc", fromLocation.MapLink)

	// The link may sit in the second location column while the
	// destination text comes from VAI:.
	fromSecondLocation := n.Normalize(types.RawRow{
		"STATUS":    "PROGRAMADO",
		"ESTÁ:":     "PONTA GROSSA",
		"VAI:":      "CLIENTE CASTRO",
		"ESTÁ EM:":  "",
		"VAI PARA:": "https://maps.app/xyz",
	}, 0)
	assert.Equal(t, "https://maps.app/xyz", fromSecondLocation.MapLink)
	assert.Equal(t, "CLIENTE CASTRO", fromSecondLocation.DestinationLabel)

	// A non-link text in the first location column does not hide a link
	// further down.
	pastText := n.Normalize(types.RawRow{
		"ESTÁ EM:":  "PATIO",
		"VAI PARA:": "https://maps.app/abc",
	}, 0)
	assert.Equal(t, "https://maps.app/abc", pastText.MapLink)
}

func TestNormalize_equipmentIsNotChassis(t *testing.T) {
	rec := normalizer.New(nil).Normalize(types.RawRow{
		"STATUS": "CONCLUIDO",
		"EQUIP":  "TRATOR",
	}, 0)

	assert.Equal(t, "TRATOR", rec.Equipment)
	assert.Empty(t, rec.ChassisList)
	assert.Equal(t, []string{types.NoChassisPlaceholder}, rec.DisplayChassis())
}

func TestNormalize_nativeCellValues(t *testing.T) {
	rec := normalizer.New(nil).Normalize(types.RawRow{
		"PREV":    46086.0,
		"R$ PROP": 1500.0,
		"KM":      320.0,
		"CHASSI":  987654.0,
	}, 0)

	require.NotNil(t, rec.ExpectedDate)
	assert.Equal(t, time.March, rec.ExpectedDate.Month())
	assert.True(t, decimal.NewFromInt(1500).Equal(rec.CostOwn))
	assert.Equal(t, 320, rec.DistanceKm)
	assert.Equal(t, []string{"987654"}, rec.ChassisList)
}

func TestNormalizeAll_skipsNilRowsAndKeepsIndexIDs(t *testing.T) {
	ds := &types.Dataset{
		Rows: []types.RawRow{
			{"STATUS": "RECEBIDO"},
			nil,
			{"STATUS": "PROGRAMADO"},
		},
	}

	recs := normalizer.New(nil).NormalizeAll(ds)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].ID)
	assert.Equal(t, 3, recs[1].ID)
}

func TestNormalizeAll_externalKeys(t *testing.T) {
	n := normalizer.New(nil)

	keyed := n.NormalizeAll(&types.Dataset{
		Headers: []string{"ID", "STATUS"},
		Rows: []types.RawRow{
			{"ID": "101", "STATUS": "RECEBIDO"},
			{"ID": 205.0, "STATUS": "RECEBIDO"},
		},
	})
	assert.Equal(t, 101, keyed[0].ID)
	assert.Equal(t, 205, keyed[1].ID)

	duplicated := n.NormalizeAll(&types.Dataset{
		Headers: []string{"ID", "STATUS"},
		Rows: []types.RawRow{
			{"ID": "7", "STATUS": "RECEBIDO"},
			{"ID": "7", "STATUS": "RECEBIDO"},
		},
	})
	assert.Equal(t, 1, duplicated[0].ID)
	assert.Equal(t, 2, duplicated[1].ID)
}

func TestNew_customCities(t *testing.T) {
	m := config.DefaultColumnMapping()
	m.Cities = []string{"LAPA"}

	n := normalizer.New(m)
	rec := n.Normalize(types.RawRow{"FILIAL CUSTOS": "Lapa", "ESTÁ:": "Castro"}, 0)

	assert.Equal(t, types.City("LAPA"), rec.CostCity)
	assert.Equal(t, types.City(""), rec.OriginCity)
	assert.Equal(t, []types.City{"LAPA"}, n.Cities())
}

func TestNormalizeAll_nilDataset(t *testing.T) {
	recs := normalizer.New(nil).NormalizeAll(nil)
	require.NotNil(t, recs)
	assert.Empty(t, recs)
}
