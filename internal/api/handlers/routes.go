package handlers

import (
	"depot-analysis/internal/api/dto"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/ports"
	"depot-analysis/internal/services"
	"fmt"
	"net/http"
)

type RouteHandler struct {
	Optimizer ports.RouteOptimizer
}

// Create builds one tour from the request's depot over the given cost
// matrix. An infeasible instance is a 200 with found=false.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
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
	if len(locations) == 0 {
		writeError(w, r, http.StatusBadRequest, "locations are required")
		return
	}

	costs, err := dto.ToMatrix(req.Costs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "costs: "+err.Error())
		return
	}

	depot := 0
	if req.Depot != "" {
		depot, err = domain.IndexOf(locations, req.Depot)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	opts, err := routeOptions(req.Strategy, req.LocalSearch, req.ReturnToDepot)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tour, err := services.ConstructRoute(r.Context(), h.Optimizer, locations, costs, depot, opts)
	if err != nil {
		writeServiceError(w, r, "routes.create", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTour(*tour))
}

func routeOptions(strategy string, localSearch, returnToDepot *bool) (services.RouteOptions, error) {
	opts := services.DefaultRouteOptions()
	switch s := ports.Strategy(strategy); s {
	case "":
	case ports.StrategyPathCheapestArc, ports.StrategyExact:
		opts.Strategy = s
	default:
		return opts, fmt.Errorf("unknown strategy %q", strategy)
	}
	if localSearch != nil {
		opts.LocalSearch = *localSearch
	}
	if returnToDepot != nil {
		opts.ReturnToDepot = *returnToDepot
	}
	return opts, nil
}
