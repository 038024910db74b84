// =============================================================================
// Freight Tracker - Record Store
// =============================================================================
//
// The store holds the normalized request set of the most recently loaded
// dataset.
//
// LIFECYCLE:
//   not loaded  --Load / successful Reload-->  loaded
//   loaded      --Load / successful Reload-->  loaded (new set)
//
// A set is built completely before it is published with a single atomic
// pointer swap, so readers see either the old set or the new one and never a
// partial load. A reader holding a *RecordSet keeps a valid, unchanging view
// for as long as it likes; a reload only affects later calls to Current.
//
// ERRORS:
//   - ErrNotLoaded:   Current before the first successful load
//   - ErrLoadFailure: Reload could not fetch or decode the dataset; the
//                     previously published set stays in place
//
// =============================================================================

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/normalizer"
	"github.com/ginjaninja78/freight-tracker/internal/source"
	"github.com/ginjaninja78/freight-tracker/internal/types"
	"github.com/ginjaninja78/freight-tracker/internal/validation"
)

var (
	// ErrNotLoaded is returned by Current before any dataset was loaded.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrLoadFailure wraps every fetch or decode failure during Reload.
	ErrLoadFailure = errors.New("dataset load failed")
)

// =============================================================================
// RECORD SET
// =============================================================================

// RecordSet is one immutable, fully normalized dataset.
type RecordSet struct {
	records  []types.TransportRequest
	loadID   string
	loadedAt time.Time
	origin   string
	report   *validation.Report
}

// All returns a copy of the records in input order. Callers may modify the
// copy freely.
func (rs *RecordSet) All() []types.TransportRequest {
	out := make([]types.TransportRequest, len(rs.records))
	for i, rec := range rs.records {
		out[i] = cloneRecord(rec)
	}
	return out
}

// Len returns the number of records.
func (rs *RecordSet) Len() int { return len(rs.records) }

// LoadID uniquely identifies this load.
func (rs *RecordSet) LoadID() string { return rs.loadID }

// LoadedAt is when the set was built.
func (rs *RecordSet) LoadedAt() time.Time { return rs.loadedAt }

// Origin names where the rows came from (path, URL, s3 URI).
func (rs *RecordSet) Origin() string { return rs.origin }

// HeaderReport is the header check of the loaded dataset.
func (rs *RecordSet) HeaderReport() *validation.Report { return rs.report }

func cloneRecord(rec types.TransportRequest) types.TransportRequest {
	rec.ChassisList = slices.Clone(rec.ChassisList)
	if rec.ExpectedDate != nil {
		d := *rec.ExpectedDate
		rec.ExpectedDate = &d
	}
	if rec.ActualDate != nil {
		d := *rec.ActualDate
		rec.ActualDate = &d
	}
	return rec
}

// =============================================================================
// STORE
// =============================================================================

// Store publishes the current RecordSet.
type Store struct {
	src        source.Source
	normalizer *normalizer.Normalizer
	logger     *zap.Logger

	current  atomic.Pointer[RecordSet]
	reloadMu sync.Mutex
}

// New creates a store.
//
// PARAMETERS:
//   - src: Where Reload fetches from. May be nil when only Load is used.
//   - n: The row normalizer (nil selects the built-in column mapping).
//   - logger: May be nil.
func New(src source.Source, n *normalizer.Normalizer, logger *zap.Logger) *Store {
	if n == nil {
		n = normalizer.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{src: src, normalizer: n, logger: logger}
}

// Load normalizes the dataset and publishes it, replacing the previous set.
// A nil dataset publishes an empty set.
func (s *Store) Load(ds *types.Dataset) *RecordSet {
	if ds == nil {
		ds = &types.Dataset{}
	}

	headers := ds.Headers
	rs := &RecordSet{
		records:  s.normalizer.NormalizeAll(ds),
		loadID:   uuid.NewString(),
		loadedAt: time.Now(),
		origin:   ds.Origin,
	}
	if len(headers) > 0 {
		rs.report = validation.CheckHeaders(headers, s.normalizer.Mapping())
	} else {
		rs.report = &validation.Report{Findings: []validation.Finding{}}
	}

	s.current.Store(rs)

	s.logger.Info("dataset loaded",
		zap.String("loadId", rs.loadID),
		zap.String("origin", rs.origin),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("records", len(rs.records)),
	)
	for _, f := range rs.report.Findings {
		switch f.Severity {
		case validation.SeverityError:
			s.logger.Warn("required column missing", zap.String("field", string(f.Field)), zap.String("detail", f.Message))
		case validation.SeverityWarning:
			s.logger.Debug("optional column missing", zap.String("field", string(f.Field)))
		}
	}
	return rs
}

// Reload fetches the dataset from the source and publishes it.
//
// Concurrent reloads are serialized. On failure the error wraps
// ErrLoadFailure and the previous set remains current.
func (s *Store) Reload(ctx context.Context) (*RecordSet, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrLoadFailure)
	}

	start := time.Now()
	ds, err := s.src.Fetch(ctx)
	if err != nil {
		s.logger.Error("dataset fetch failed",
			zap.String("source", s.src.Describe()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailure, s.src.Describe(), err)
	}

	rs := s.Load(ds)
	s.logger.Debug("reload finished",
		zap.String("source", s.src.Describe()),
		zap.Duration("took", time.Since(start)),
	)
	return rs, nil
}

// Current returns the published set.
func (s *Store) Current() (*RecordSet, error) {
	rs := s.current.Load()
	if rs == nil {
		return nil, ErrNotLoaded
	}
	return rs, nil
}

// Normalizer returns the normalizer used for loads.
func (s *Store) Normalizer() *normalizer.Normalizer {
	return s.normalizer
}
