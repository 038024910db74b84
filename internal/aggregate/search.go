package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/ginjaninja78/freight-tracker/internal/textnorm"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// Query filters records for the request lists. Zero fields do not filter.
type Query struct {
	// Chassis, Invoice and Requester match as accent- and case-insensitive
	// substrings. Chassis matches any entry of the chassis list.
	Chassis   string
	Invoice   string
	Requester string

	// Statuses keeps only these canonical statuses.
	Statuses []types.Status

	// Start and End bound the expected date (inclusive). When either is
	// set, records without an expected date are dropped.
	Start *time.Time
	End   *time.Time

	Demo DemoFilter
}

// Search returns the records matching q, in input order.
func Search(records []types.TransportRequest, q Query) []types.TransportRequest {
	chassis := strings.TrimSpace(q.Chassis)
	invoice := strings.TrimSpace(q.Invoice)
	requester := strings.TrimSpace(q.Requester)

	out := []types.TransportRequest{}
	for _, rec := range FilterDemo(records, q.Demo) {
		if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, rec.StatusCanonical) {
			continue
		}
		if invoice != "" && !textnorm.ContainsFold(rec.InvoiceRef, invoice) {
			continue
		}
		if requester != "" && !textnorm.ContainsFold(rec.Requester, requester) {
			continue
		}
		if chassis != "" && !slices.ContainsFunc(rec.ChassisList, func(c string) bool {
			return textnorm.ContainsFold(c, chassis)
		}) {
			continue
		}
		if q.Start != nil || q.End != nil {
			if rec.ExpectedDate == nil {
				continue
			}
			day := dayOf(*rec.ExpectedDate)
			if q.Start != nil && day.Before(dayOf(*q.Start)) {
				continue
			}
			if q.End != nil && day.After(dayOf(*q.End)) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// PendingOrder returns a sorted copy for the request board:
//
//  1. open requests by expected date (undated last), then id
//  2. suspended requests, same order
//  3. completed requests, most recent expected date first, then id
//
// Unknown statuses count as open.
func PendingOrder(records []types.TransportRequest) []types.TransportRequest {
	out := slices.Clone(records)
	if out == nil {
		out = []types.TransportRequest{}
	}

	rank := func(r types.TransportRequest) int {
		switch r.StatusCanonical {
		case types.StatusCompleted:
			return 2
		case types.StatusSuspended:
			return 1
		default:
			return 0
		}
	}

	slices.SortStableFunc(out, func(a, b types.TransportRequest) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return cmp.Compare(ra, rb)
		}
		if ra == 2 {
			return byDateDescThenID(a, b)
		}
		return byDateThenID(a, b)
	})
	return out
}

func byDateDescThenID(a, b types.TransportRequest) int {
	switch {
	case a.ExpectedDate == nil && b.ExpectedDate != nil:
		return 1
	case a.ExpectedDate != nil && b.ExpectedDate == nil:
		return -1
	case a.ExpectedDate != nil && b.ExpectedDate != nil:
		if c := b.ExpectedDate.Compare(*a.ExpectedDate); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}
