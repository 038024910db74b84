// =============================================================================
// Freight Tracker - XLSX Sheet Parser
// =============================================================================
//
// This module extracts raw rows from the request workbook. Unlike the CSV
// export, a workbook keeps cell types, so values are handed on typed:
//
//   | Cell                              | Raw value     |
//   |-----------------------------------|---------------|
//   | text (shared / inline string)     | string        |
//   | number with a date number format  | time.Time     |
//   | any other number                  | float64       |
//   | boolean, error, formula text      | string        |
//
// Keeping numbers numeric matters: a monetary cell holding 1500.5 must not be
// read back as Brazilian text, where "." is a thousands separator.
//
// SHEET SELECTION:
//   The sheet is named explicitly (column mapping or config). A missing sheet
//   is an error; there is no fallback to another sheet.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options selects what to read from a workbook.
type Options struct {
	// Sheet is the sheet to read. Empty selects the first sheet.
	Sheet string

	// HeaderRow is the 1-based row holding the column headers.
	// Default: 1
	HeaderRow int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a workbook file.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - opts: Sheet and header row selection.
//
// RETURNS:
//   - The extracted dataset with Origin set to path.
//   - An error if the file cannot be opened or the sheet does not exist.
func Parse(path string, opts Options) (*types.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds, err := readSheet(f, opts)
	if err != nil {
		return nil, err
	}
	ds.Origin = path
	return ds, nil
}

// ReadRows reads a workbook from any reader (HTTP body, S3 object).
func ReadRows(r io.Reader, opts Options) (*types.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, opts)
}

// readSheet extracts the header row and every non-blank data row.
func readSheet(f *excelize.File, opts Options) (*types.Dataset, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}
	if len(rows) < headerRow {
		return &types.Dataset{Headers: []string{}, Rows: []types.RawRow{}}, nil
	}

	headers := cleanHeaders(rows[headerRow-1])
	cells := &cellReader{file: f, sheet: sheet, dateStyles: make(map[int]bool)}

	dataRows := make([]types.RawRow, 0, len(rows)-headerRow)
	for r := headerRow; r < len(rows); r++ {
		row := rows[r]
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(types.RawRow, len(headers))
		for c, header := range headers {
			if c < len(row) {
				rowMap[header] = cells.value(c, r, row[c])
			} else {
				rowMap[header] = ""
			}
		}
		dataRows = append(dataRows, rowMap)
	}

	return &types.Dataset{Headers: headers, Rows: dataRows}, nil
}

// =============================================================================
// CELL TYPING
// =============================================================================

// cellReader turns raw cell text into typed values, caching the date check
// per style id.
type cellReader struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

// value converts the raw text of the cell at zero-based (col, row).
func (c *cellReader) value(col, row int, raw string) any {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}

	typ, err := c.file.GetCellType(c.sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
	default:
		return raw
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}

	if c.isDateCell(cell) {
		if t, err := excelize.ExcelDateToTime(num, false); err == nil {
			return t
		}
	}
	return num
}

// isDateCell reports whether the cell's number format renders a date.
func (c *cellReader) isDateCell(cell string) bool {
	styleID, err := c.file.GetCellStyle(c.sheet, cell)
	if err != nil {
		return false
	}
	if known, ok := c.dateStyles[styleID]; ok {
		return known
	}

	isDate := false
	if style, err := c.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	c.dateStyles[styleID] = isDate
	return isDate
}

// isDateFormat recognises built-in date formats (14-22, 27-36, 45-47, 50-58)
// and custom formats carrying day or year tokens.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customHasDateTokens(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

// customHasDateTokens ignores quoted literals and [...] sections such as
// colours or locale tags before looking for d or y.
func customHasDateTokens(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	plain := b.String()
	return strings.ContainsAny(plain, "dy")
}

// =============================================================================
// HELPERS
// =============================================================================

// cleanHeaders trims header cells and names blank ones Column_N.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

