package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/aggregate"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// Defaults for the KPI window and carrier ranking.
const (
	DefaultStatusWindowDays = 30
	DefaultCarrierLimit     = 10
)

// =============================================================================
// RESPONSES
// =============================================================================

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// RequestsResponse is the body of GET /requests.
type RequestsResponse struct {
	LoadID   string                   `json:"loadId"`
	Origin   string                   `json:"origin"`
	LoadedAt time.Time                `json:"loadedAt"`
	Count    int                      `json:"count"`
	Requests []types.TransportRequest `json:"requests"`
}

// StatusCountsResponse is the body of GET /status-counts.
type StatusCountsResponse struct {
	Start       string               `json:"start"`
	End         string               `json:"end"`
	ExcludeDemo bool                 `json:"excludeDemo"`
	Counts      map[types.Status]int `json:"counts"`
}

// CalendarResponse is the body of GET /calendar.
type CalendarResponse struct {
	Start string                              `json:"start"`
	End   string                              `json:"end"`
	Demo  string                              `json:"demo"`
	Days  map[string][]types.TransportRequest `json:"days"`
}

// CostsResponse is the body of GET /costs/{month}.
type CostsResponse struct {
	Month     string                    `json:"month"`
	Cities    []aggregate.CityCost      `json:"cities"`
	Equipment []aggregate.EquipmentCost `json:"equipment"`
	Carriers  []aggregate.CarrierTotal  `json:"carriers"`
}

// ReloadResponse is the body of POST /reload.
type ReloadResponse struct {
	LoadID string `json:"loadId"`
	Origin string `json:"origin"`
	Count  int    `json:"count"`
}

// =============================================================================
// HANDLERS
// =============================================================================

// getHealth handles GET /healthz.
func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// getRequests handles GET /requests.
//
// Query: chassis, invoice, requester, status (repeatable or comma separated),
// start, end (YYYY-MM-DD), demo (all|exclude|only), order=pending.
func (s *Server) getRequests(w http.ResponseWriter, r *http.Request) {
	rs, err := s.store.Current()
	if err != nil {
		s.storeError(w, err)
		return
	}

	q := r.URL.Query()
	query := aggregate.Query{
		Chassis:   q.Get("chassis"),
		Invoice:   q.Get("invoice"),
		Requester: q.Get("requester"),
	}
	if query.Statuses, err = parseStatuses(q["status"]); err != nil {
		badRequest(w, err)
		return
	}
	if query.Start, err = parseOptionalDay(q.Get("start")); err != nil {
		badRequest(w, err)
		return
	}
	if query.End, err = parseOptionalDay(q.Get("end")); err != nil {
		badRequest(w, err)
		return
	}
	if query.Demo, err = aggregate.ParseDemoFilter(q.Get("demo")); err != nil {
		badRequest(w, err)
		return
	}

	records := aggregate.Search(rs.All(), query)
	switch q.Get("order") {
	case "":
	case "pending":
		records = aggregate.PendingOrder(records)
	default:
		badRequest(w, fmt.Errorf("order must be pending, got %q", q.Get("order")))
		return
	}

	w.Header().Set("X-Load-ID", rs.LoadID())
	writeJSON(w, http.StatusOK, RequestsResponse{
		LoadID:   rs.LoadID(),
		Origin:   rs.Origin(),
		LoadedAt: rs.LoadedAt(),
		Count:    len(records),
		Requests: records,
	})
}

// getStatusCounts handles GET /status-counts.
//
// Defaults: the last 30 days up to today, demos excluded.
func (s *Server) getStatusCounts(w http.ResponseWriter, r *http.Request) {
	rs, err := s.store.Current()
	if err != nil {
		s.storeError(w, err)
		return
	}

	q := r.URL.Query()
	today := s.now()
	start, end, err := parseWindow(q.Get("start"), q.Get("end"),
		today.AddDate(0, 0, -(DefaultStatusWindowDays-1)), today)
	if err != nil {
		badRequest(w, err)
		return
	}

	excludeDemo := true
	if raw := q.Get("excludeDemo"); raw != "" {
		if excludeDemo, err = strconv.ParseBool(raw); err != nil {
			badRequest(w, fmt.Errorf("excludeDemo must be a boolean, got %q", raw))
			return
		}
	}

	w.Header().Set("X-Load-ID", rs.LoadID())
	writeJSON(w, http.StatusOK, StatusCountsResponse{
		Start:       aggregate.DayKey(start),
		End:         aggregate.DayKey(end),
		ExcludeDemo: excludeDemo,
		Counts:      aggregate.StatusCounts(rs.All(), start, end, excludeDemo),
	})
}

// getCalendar handles GET /calendar.
//
// Query: start, end (default: the current Monday..Saturday week), status
// (repeatable or comma separated; default every status) and demo
// (all, exclude or only; default all).
func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	rs, err := s.store.Current()
	if err != nil {
		s.storeError(w, err)
		return
	}

	q := r.URL.Query()
	weekStart, weekEnd := aggregate.WeekRange(s.now())
	start, end, err := parseWindow(q.Get("start"), q.Get("end"), weekStart, weekEnd)
	if err != nil {
		badRequest(w, err)
		return
	}
	statuses, err := parseStatuses(q["status"])
	if err != nil {
		badRequest(w, err)
		return
	}
	demo, err := aggregate.ParseDemoFilter(q.Get("demo"))
	if err != nil {
		badRequest(w, err)
		return
	}

	records := aggregate.FilterDemo(rs.All(), demo)
	w.Header().Set("X-Load-ID", rs.LoadID())
	writeJSON(w, http.StatusOK, CalendarResponse{
		Start: aggregate.DayKey(start),
		End:   aggregate.DayKey(end),
		Demo:  demo.String(),
		Days:  aggregate.BucketByDay(records, statuses, start, end),
	})
}

// getCosts handles GET /costs/{month}.
func (s *Server) getCosts(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if _, err := aggregate.ParseMonthKey(month); err != nil {
		badRequest(w, err)
		return
	}

	rs, err := s.store.Current()
	if err != nil {
		s.storeError(w, err)
		return
	}

	limit := DefaultCarrierLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			badRequest(w, fmt.Errorf("limit must be a non-negative integer, got %q", raw))
			return
		}
	}

	records := rs.All()
	w.Header().Set("X-Load-ID", rs.LoadID())
	writeJSON(w, http.StatusOK, CostsResponse{
		Month:     month,
		Cities:    aggregate.CityCostRollup(records, month, s.cities),
		Equipment: aggregate.EquipmentCosts(records, month),
		Carriers:  aggregate.CarrierRanking(records, month, limit),
	})
}

// postReload handles POST /reload.
func (s *Server) postReload(w http.ResponseWriter, r *http.Request) {
	rs, err := s.store.Reload(r.Context())
	if err != nil {
		s.logger.Warn("reload failed", zap.Error(err))
		s.storeError(w, err)
		return
	}

	w.Header().Set("X-Load-ID", rs.LoadID())
	writeJSON(w, http.StatusOK, ReloadResponse{
		LoadID: rs.LoadID(),
		Origin: rs.Origin(),
		Count:  rs.Len(),
	})
}

// =============================================================================
// QUERY PARSING
// =============================================================================

// parseStatuses accepts canonical names, repeated or comma separated.
func parseStatuses(values []string) ([]types.Status, error) {
	var out []types.Status
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToUpper(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			st, ok := types.ParseStatus(name)
			if !ok {
				return nil, fmt.Errorf("unknown status %q", name)
			}
			out = append(out, st)
		}
	}
	return out, nil
}

func parseOptionalDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := aggregate.ParseDayKey(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseWindow parses start and end, falling back to the defaults.
func parseWindow(rawStart, rawEnd string, defStart, defEnd time.Time) (time.Time, time.Time, error) {
	start, end := defStart, defEnd
	if rawStart != "" {
		d, err := aggregate.ParseDayKey(rawStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	if rawEnd != "" {
		d, err := aggregate.ParseDayKey(rawEnd)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s", aggregate.DayKey(end), aggregate.DayKey(start))
	}
	return start, end, nil
}
