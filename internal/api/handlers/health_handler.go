package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/project-roulette/engine/internal/api/types"
	"github.com/project-roulette/engine/internal/repository"
	appErr "github.com/project-roulette/engine/pkg/errors"
)

type HealthHandler struct {
	store repository.Pinger
}

// NewHealthHandler reports ready once store answers a ping. A nil store is
// always ready.
func NewHealthHandler(store repository.Pinger) *HealthHandler { return &HealthHandler{store: store} }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, appErr.Wrap(err, appErr.CodeUnavailable, "store unreachable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ready"}})
}
