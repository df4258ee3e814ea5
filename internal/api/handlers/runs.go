package handlers

import (
	"depot-analysis/internal/api/dto"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/obs"
	"depot-analysis/internal/ports"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// RunHandler exposes recorded comparison runs.
type RunHandler struct {
	Runs ports.RunRepository
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	run, err := h.Runs.GetRun(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Printf("req_id=%s get run failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRun(run))
}
