// =============================================================================
// Freight Tracker - Aggregation Engine
// =============================================================================
//
// Pure query functions over a record sequence. Every function takes the
// records plus explicit parameters, never reads global state and never
// modifies its input, so they are safe to call concurrently on the slice
// returned by a RecordSet.
//
// DATE WINDOWS:
//   Windows are closed calendar-day ranges [start, end]. Only the calendar
//   date of start and end is used; the clock and zone are ignored. Records
//   without an expected date never fall inside any window.
//
// DEMONSTRATIONS:
//   Demo requests are never dropped silently. Functions either take an
//   explicit demo flag or report demo sub-totals next to the totals.
//
// =============================================================================

package aggregate

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// Key layouts.
const (
	DayKeyLayout   = "2006-01-02"
	MonthKeyLayout = "2006-01"
)

// weekConfig starts weeks on Monday, matching the weekly board.
var weekConfig = &now.Config{WeekStartDay: time.Monday, TimeLocation: time.Local}

// =============================================================================
// KEYS
// =============================================================================

// DayKey formats the calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// MonthKey formats the calendar month of t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonthKey parses YYYY-MM into the first day of that month at local
// midnight.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q (want YYYY-MM): %w", key, err)
	}
	return t, nil
}

// ParseDayKey parses YYYY-MM-DD into local midnight.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q (want YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// =============================================================================
// RANGES
// =============================================================================

// WeekRange returns Monday and Saturday of the week containing ref.
// Sunday belongs to the week that started six days earlier.
func WeekRange(ref time.Time) (start, end time.Time) {
	start = weekConfig.With(dayOf(ref)).BeginningOfWeek()
	return start, start.AddDate(0, 0, 5)
}

// MonthRange returns the first and last day of the month containing ref.
func MonthRange(ref time.Time) (start, end time.Time) {
	n := now.With(dayOf(ref))
	return n.BeginningOfMonth(), dayOf(n.EndOfMonth())
}

// Days lists every calendar day in [start, end].
func Days(start, end time.Time) []time.Time {
	var out []time.Time
	for d := dayOf(start); !d.After(dayOf(end)); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// dayOf keeps the calendar date of t at local midnight, without converting
// between zones.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// inWindow reports whether d falls in the closed day range.
func inWindow(d *time.Time, start, end time.Time) bool {
	if d == nil {
		return false
	}
	day := dayOf(*d)
	return !day.Before(dayOf(start)) && !day.After(dayOf(end))
}

// inMonth reports whether the record's expected date falls in monthKey.
func inMonth(rec types.TransportRequest, monthKey string) bool {
	return rec.ExpectedDate != nil && MonthKey(*rec.ExpectedDate) == monthKey
}
