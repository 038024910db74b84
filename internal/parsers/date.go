package parsers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LOCAL DATE PARSER
// =============================================================================

var brDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)

// fallbackLayouts are tried in order when the text is not DD/MM/YYYY.
var fallbackLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// maxSpreadsheetSerial is 9999-12-31 in the 1900 date system.
const maxSpreadsheetSerial = 2958465

// LocalDate parses a calendar date and normalizes it to local midnight.
//
// PARAMETERS:
//   - v: one of
//       time.Time             : its year/month/day are kept as written
//       "DD/MM/YYYY"          : also DD/MM/YY, read as 20YY
//       other date text       : ISO dates, RFC 3339, YYYY/MM/DD, DD-MM-YYYY, DD.MM.YYYY
//       float64 / int         : spreadsheet date serial
//
// RETURNS:
//   - A pointer to the date at 00:00 in time.Local, or nil when the input is
//     empty, invalid or not a real calendar day (31/02/2026).
func LocalDate(v any) *time.Time {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return midnight(x.Year(), x.Month(), x.Day())
	case *time.Time:
		if x == nil {
			return nil
		}
		return LocalDate(*x)
	case float64:
		return fromSerial(x)
	case float32:
		return fromSerial(float64(x))
	case int:
		return fromSerial(float64(x))
	case int64:
		return fromSerial(float64(x))
	case string:
		return parseDateText(x)
	default:
		return parseDateText(Text(x))
	}
}

func parseDateText(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := brDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return validDate(year, month, day)
	}

	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return midnight(t.Year(), t.Month(), t.Day())
		}
	}

	return nil
}

// fromSerial converts a spreadsheet serial number (days since 1899-12-30).
func fromSerial(f float64) *time.Time {
	if math.IsNaN(f) || f < 1 || f > maxSpreadsheetSerial {
		return nil
	}

	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return nil
	}
	return midnight(t.Year(), t.Month(), t.Day())
}

// validDate rejects days that time.Date would silently roll over.
func validDate(year, month, day int) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	t := midnight(year, time.Month(month), day)
	if t.Day() != day || int(t.Month()) != month {
		return nil
	}
	return t
}

func midnight(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return &t
}
