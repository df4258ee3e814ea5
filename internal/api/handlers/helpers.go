package handlers

import (
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

// MaxLocations caps the locations of one request; provider calls grow with
// n² and local search with n³ per pass.
const MaxLocations = 64

// checkLocationCount writes the 400 response itself and reports false
// when n exceeds MaxLocations.
func checkLocationCount(w http.ResponseWriter, r *http.Request, n int) bool {
	if n > MaxLocations {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("too many locations: %d, at most %d", n, MaxLocations))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("req_id=%s encode failed: method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown
// fields. It writes the 400 response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// isInvalidInput reports errors caused by the request rather than by the
// service or its dependencies.
func isInvalidInput(err error) bool {
	for _, target := range []error{
		domain.ErrShapeMismatch,
		domain.ErrEmptyComparisonSet,
		domain.ErrDuplicateLocation,
		domain.ErrUnknownLocation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps a service error onto a status code: 400 for bad
// input, 502 for provider failures, 500 otherwise.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case isInvalidInput(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrProvider):
		log.Printf("req_id=%s op=%s provider failure: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusBadGateway, "distance provider failure")
	default:
		log.Printf("req_id=%s op=%s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
