// Package api serves the loaded request set as read-only JSON.
//
// Routes:
//
//	GET  /healthz
//	GET  /requests          full or filtered request list
//	GET  /status-counts     KPI counts over a window
//	GET  /calendar          day buckets over a window
//	GET  /costs/{month}     city roll-up and carrier ranking
//	POST /reload            fetch the source again
//
// Every data route answers 503 until a dataset has been loaded.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/store"
	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// RecordStore is what the handlers need from the store. Defined here so
// tests can substitute it.
type RecordStore interface {
	Current() (*store.RecordSet, error)
	Reload(ctx context.Context) (*store.RecordSet, error)
}

// Server holds the handler dependencies.
type Server struct {
	store  RecordStore
	cities []types.City
	logger *zap.Logger
	now    func() time.Time
}

// NewServer constructs the Server. A nil city list selects the fixed
// branch list; a nil logger discards logs.
func NewServer(st RecordStore, cities []types.City, logger *zap.Logger) *Server {
	if cities == nil {
		cities = types.KnownCities()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: st, cities: cities, logger: logger, now: time.Now}
}

// Router builds the chi router with request ids, real IP, request logging
// and panic recovery.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.getHealth)
	r.Get("/requests", s.getRequests)
	r.Get("/status-counts", s.getStatusCounts)
	r.Get("/calendar", s.getCalendar)
	r.Get("/costs/{month}", s.getCosts)
	r.Post("/reload", s.postReload)
	return r
}

// NewHTTPServer wraps the router with the timeouts used in production.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
