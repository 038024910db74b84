package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/store"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail under "error".
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// badRequest answers 400 for malformed query parameters.
func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
}

// storeError maps store sentinels to status codes:
// ErrNotLoaded -> 503, ErrLoadFailure -> 502, anything else -> 500.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_loaded", "no dataset loaded yet")
	case errors.Is(err, store.ErrLoadFailure):
		writeError(w, http.StatusBadGateway, "load_failed", err.Error())
	default:
		s.logger.Error("unexpected store error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
