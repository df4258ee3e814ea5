package handlers

import (
	"context"
	"depot-analysis/internal/api/dto"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"depot-analysis/internal/services"
	"log"
	"net/http"
	"strings"
	"time"
)

// ComparisonHandler serves depot comparisons, either end to end against
// the configured provider or over matrices supplied by the caller.
type ComparisonHandler struct {
	Provider  ports.DistanceProvider
	Optimizer ports.RouteOptimizer
	// Runs is optional; when set every successful analysis is recorded.
	Runs ports.RunRepository
	// Defaults fill travel options the request leaves empty.
	Defaults ports.TravelOptions
}

func (h *ComparisonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ComparisonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !checkLocationCount(w, r, len(req.Locations)) {
		return
	}

	if len(req.Locations) < 2 {
		writeError(w, r, http.StatusBadRequest, "at least two locations are required")
		return
	}
	if len(req.Depots) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one depot is required")
		return
	}

	units, err := unitsFor(req.DistanceUnit, req.DurationUnit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := routeOptions(req.Strategy, req.LocalSearch, req.ReturnToDepot)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	travel := h.Defaults
	if req.Mode != "" {
		travel.Mode = req.Mode
	}
	if req.Units != "" {
		travel.Units = req.Units
	}
	if req.Region != "" {
		travel.Region = req.Region
	}

	analysis, err := services.AnalyzeDepots(r.Context(), services.AnalysisRequest{
		Locations:  req.Locations,
		Depots:     req.Depots,
		Travel:     travel,
		Units:      units,
		Route:      route,
		SkipRoutes: req.SkipRoutes,
	}, h.Provider, h.Optimizer)
	if err != nil {
		writeServiceError(w, r, "comparisons.create", err)
		return
	}

	h.record(r.Context(), analysis)

	writeJSON(w, r, http.StatusOK, dto.FromAnalysis(analysis, units))
}

func (h *ComparisonHandler) record(ctx context.Context, a *domain.Analysis) {
	if h.Runs == nil {
		return
	}
	err := h.Runs.SaveRun(ctx, ports.RunRecord{
		RunID:     a.RunID,
		CreatedAt: time.Now(),
		Summaries: a.Comparison.Summaries,
		Missing:   len(a.Comparison.Missing),
	})
	if err != nil {
		log.Printf("req_id=%s save run failed: %v", obs.RequestID(ctx), err)
	}
}

// Matrix runs the pure comparison over caller-supplied matrices.
func (h *ComparisonHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	var req dto.MatrixComparisonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !checkLocationCount(w, r, len(req.Locations)) {
		return
	}

	locations, err := domain.NewLocations(req.Locations)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	dist, err := dto.ToMatrix(req.Distances)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "distances: "+err.Error())
		return
	}
	dur, err := dto.ToMatrix(req.Durations)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "durations: "+err.Error())
		return
	}

	depots := make([]int, 0, len(req.Depots))
	for _, name := range req.Depots {
		idx, err := domain.IndexOf(locations, name)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		depots = append(depots, idx)
	}

	cmp, err := services.Compare(locations, dist, dur, depots)
	if err != nil {
		writeServiceError(w, r, "comparisons.matrix", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromComparison(cmp))
}

func unitsFor(distance, duration string) (domain.Units, error) {
	if distance == "" && duration == "" {
		return domain.DefaultUnits, nil
	}
	if distance == "" {
		distance = domain.DefaultUnits.DistanceLabel
	}
	if duration == "" {
		duration = domain.DefaultUnits.DurationLabel
	}
	return domain.UnitsFor(strings.ToLower(distance), strings.ToLower(duration))
}
