package api

import (
	"depot-analysis/internal/api/handlers"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/ports"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the adapters the HTTP surface needs. Runs may be nil, which
// disables run recording and the /runs endpoint.
type Deps struct {
	Provider  ports.DistanceProvider
	Optimizer ports.RouteOptimizer
	Runs      ports.RunRepository
	Travel    ports.TravelOptions
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.Register()

	r := mux.NewRouter()

	cmpHandler := &handlers.ComparisonHandler{
		Provider:  deps.Provider,
		Optimizer: deps.Optimizer,
		Runs:      deps.Runs,
		Defaults:  deps.Travel,
	}
	routeHandler := &handlers.RouteHandler{Optimizer: deps.Optimizer}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/comparisons", cmpHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/comparisons/matrix", cmpHandler.Matrix).Methods(http.MethodPost)
	r.HandleFunc("/routes", routeHandler.Create).Methods(http.MethodPost)

	if deps.Runs != nil {
		runHandler := &handlers.RunHandler{Runs: deps.Runs}
		r.HandleFunc("/runs/{id}", runHandler.Get).Methods(http.MethodGet)
	}

	r.Use(requestIDMiddleware, loggingMiddleware)

	return r
}
