// =============================================================================
// Freight Tracker - CSV Parser Module
// =============================================================================
//
// This module extracts raw rows from the CSV export of the request sheet.
// It handles the variations seen in exports from different spreadsheet tools:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Multi-line headers
//   - Latin-1 / Windows-1252 encodings and a leading UTF-8 BOM
//   - Quoted fields with embedded newlines (multi-line chassis cells)
//
// OUTPUT:
//   A types.Dataset whose rows map each header to the trimmed cell text.
//   Typing (dates, money) is left to the field parsers.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/freight-tracker/internal/config"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// ErrEmpty is returned when the input has no rows at all, not even a header.
var ErrEmpty = errors.New("CSV input is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter, encoding and header settings.
//
// RETURNS:
//   - The extracted dataset, with Origin set to filePath.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	ds.Origin = filePath
	return ds, nil
}

// ParseReader reads CSV content from any reader.
//
// PARSING PROCESS:
//   1. Decode the byte stream from the configured encoding to UTF-8
//   2. Configure the CSV reader with the configured delimiter
//   3. Read and merge header rows (for multi-line headers)
//   4. Convert each non-empty data row to a header -> value map
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.Dataset, error) {
	decoder, err := newDecoder(settings.Encoding)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = bufio.NewReader(r)
	if decoder != nil {
		reader = transform.NewReader(reader, decoder)
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, ErrEmpty
	}

	headerRows := settings.HeaderRows
	if headerRows <= 0 {
		headerRows = 1
	}

	headers, err := extractHeaders(allRows, headerRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	return &types.Dataset{
		Headers: headers,
		Rows:    extractDataRows(allRows[headerRows:], headers),
	}, nil
}

// newDecoder returns the decoder for a configured encoding, or nil for UTF-8.
func newDecoder(name string) (*encoding.Decoder, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are hand-edited; rows may be short and quotes sloppy.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders extracts and merges headers from the CSV.
//
// MULTI-LINE HEADER HANDLING:
//   Row 1: "R$", "R$"
//   Row 2: "PROP", "TERC"
//   Result: "R$ PROP", "R$ TERC"
func extractHeaders(allRows [][]string, headerRows int) ([]string, error) {
	if len(allRows) < headerRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if headerRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < headerRows; i++ {
		maxCols = max(maxCols, len(allRows[i]))
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers, drops a UTF-8 byte order mark and names blank
// columns Column_N so every cell keeps a key.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts data rows to maps, skipping fully blank lines.
func extractDataRows(rows [][]string, headers []string) []types.RawRow {
	dataRows := make([]types.RawRow, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(types.RawRow, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
	}

	return dataRows
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
