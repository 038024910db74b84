package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// DemoFilter selects operational or demonstration requests.
type DemoFilter int

const (
	// DemoAll keeps every record.
	DemoAll DemoFilter = iota
	// DemoExclude keeps operational records only.
	DemoExclude
	// DemoOnly keeps demonstration records only.
	DemoOnly
)

// ParseDemoFilter reads "all", "exclude" or "only" (case-insensitive).
// The empty string means all.
func ParseDemoFilter(raw string) (DemoFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return DemoAll, nil
	case "exclude":
		return DemoExclude, nil
	case "only":
		return DemoOnly, nil
	default:
		return DemoAll, fmt.Errorf("demo filter must be all, exclude or only, got %q", raw)
	}
}

// String returns the name ParseDemoFilter accepts.
func (f DemoFilter) String() string {
	switch f {
	case DemoExclude:
		return "exclude"
	case DemoOnly:
		return "only"
	default:
		return "all"
	}
}

// FilterDemo returns the records matching the filter, in input order.
func FilterDemo(records []types.TransportRequest, filter DemoFilter) []types.TransportRequest {
	out := make([]types.TransportRequest, 0, len(records))
	for _, rec := range records {
		switch {
		case filter == DemoExclude && rec.IsDemo:
		case filter == DemoOnly && !rec.IsDemo:
		default:
			out = append(out, rec)
		}
	}
	return out
}

// CountByStatus counts records with the given canonical status whose
// expected date falls in [start, end]. Demo records are skipped when
// excludeDemo is set.
func CountByStatus(records []types.TransportRequest, status types.Status, start, end time.Time, excludeDemo bool) int {
	count := 0
	for _, rec := range records {
		if rec.StatusCanonical != status {
			continue
		}
		if excludeDemo && rec.IsDemo {
			continue
		}
		if inWindow(rec.ExpectedDate, start, end) {
			count++
		}
	}
	return count
}

// StatusCounts counts every canonical status over the same window. Every
// status is present in the result, zero when nothing matched.
func StatusCounts(records []types.TransportRequest, start, end time.Time, excludeDemo bool) map[types.Status]int {
	counts := make(map[types.Status]int, len(types.AllStatuses))
	for _, st := range types.AllStatuses {
		counts[st] = 0
	}
	for _, rec := range records {
		if excludeDemo && rec.IsDemo {
			continue
		}
		if inWindow(rec.ExpectedDate, start, end) {
			counts[rec.StatusCanonical]++
		}
	}
	return counts
}

// BucketByDay groups matching records by expected date (YYYY-MM-DD).
//
// A record matches when its status is in statuses (an empty list matches
// every status) and its expected date is in [start, end]. Each day is
// sorted by expected date, then id. Days without records are absent.
func BucketByDay(records []types.TransportRequest, statuses []types.Status, start, end time.Time) map[string][]types.TransportRequest {
	buckets := make(map[string][]types.TransportRequest)
	for _, rec := range records {
		if len(statuses) > 0 && !slices.Contains(statuses, rec.StatusCanonical) {
			continue
		}
		if !inWindow(rec.ExpectedDate, start, end) {
			continue
		}
		key := DayKey(*rec.ExpectedDate)
		buckets[key] = append(buckets[key], rec)
	}

	for _, day := range buckets {
		slices.SortStableFunc(day, byDateThenID)
	}
	return buckets
}

// Upcoming lists records with the given status expected within the next
// days calendar days, starting at from. The result is sorted by date, then id.
func Upcoming(records []types.TransportRequest, status types.Status, from time.Time, days int, excludeDemo bool) []types.TransportRequest {
	if days <= 0 {
		return []types.TransportRequest{}
	}
	end := dayOf(from).AddDate(0, 0, days-1)

	out := []types.TransportRequest{}
	for _, rec := range records {
		if rec.StatusCanonical != status || (excludeDemo && rec.IsDemo) {
			continue
		}
		if inWindow(rec.ExpectedDate, from, end) {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, byDateThenID)
	return out
}

// byDateThenID orders by expected date (missing dates last), then id.
func byDateThenID(a, b types.TransportRequest) int {
	switch {
	case a.ExpectedDate == nil && b.ExpectedDate != nil:
		return 1
	case a.ExpectedDate != nil && b.ExpectedDate == nil:
		return -1
	case a.ExpectedDate != nil && b.ExpectedDate != nil:
		if c := a.ExpectedDate.Compare(*b.ExpectedDate); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}
