package xlsxparser_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/freight-tracker/internal/xlsxparser"
)

const sheet = "FRETE MÁQUINAS"

func buildWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"STATUS", "PREV", "CHASSI", "R$ PROP", "FILIAL CUSTOS"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"RECEBIDO", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), "X1, X2", 1500.5, "Castro"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"CONCLUIDO (D)", "05/03/2026", "00123", 1500, "CASTRO"}))
	return f
}

func TestReadRows_typedCells(t *testing.T) {
	f := buildWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := xlsxparser.ReadRows(bytes.NewReader(buf.Bytes()), xlsxparser.Options{Sheet: sheet})
	require.NoError(t, err)

	assert.Equal(t, []string{"STATUS", "PREV", "CHASSI", "R$ PROP", "FILIAL CUSTOS"}, ds.Headers)
	require.Len(t, ds.Rows, 2, "blank row is skipped")

	first := ds.Rows[0]
	assert.Equal(t, "RECEBIDO", first["STATUS"])
	prev, ok := first["PREV"].(time.Time)
	require.True(t, ok, "date cell is typed, got %T", first["PREV"])
	assert.Equal(t, 2026, prev.Year())
	assert.Equal(t, time.March, prev.Month())
	assert.Equal(t, 5, prev.Day())
	assert.Equal(t, 1500.5, first["R$ PROP"])

	second := ds.Rows[1]
	assert.Equal(t, "05/03/2026", second["PREV"])
	assert.Equal(t, "00123", second["CHASSI"], "text keeps leading zeros")
	assert.Equal(t, 1500.0, second["R$ PROP"])
}

func TestReadRows_firstSheetByDefault(t *testing.T) {
	f := buildWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := xlsxparser.ReadRows(bytes.NewReader(buf.Bytes()), xlsxparser.Options{})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 2)
}

func TestReadRows_missingSheet(t *testing.T) {
	f := buildWorkbook(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = xlsxparser.ReadRows(bytes.NewReader(buf.Bytes()), xlsxparser.Options{Sheet: "OUTRA"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTRA")
}

func TestReadRows_notAWorkbook(t *testing.T) {
	_, err := xlsxparser.ReadRows(bytes.NewReader([]byte("STATUS,PREV\n")), xlsxparser.Options{})
	require.Error(t, err)
}

func TestParse_file(t *testing.T) {
	f := buildWorkbook(t)
	path := filepath.Join(t.TempDir(), "BASE.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := xlsxparser.Parse(path, xlsxparser.Options{Sheet: sheet})
	require.NoError(t, err)
	assert.Equal(t, path, ds.Origin)
	assert.Len(t, ds.Rows, 2)
}
