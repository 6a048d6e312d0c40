package handlers

import (
	"net/http"

	"github.com/project-roulette/engine/internal/api/types"
	"github.com/project-roulette/engine/internal/models"
)

type OptionsHandler struct {
	catalog models.Catalog
}

func NewOptionsHandler(c models.Catalog) *OptionsHandler { return &OptionsHandler{catalog: c} }

// Get lists the choices a client form should offer.
func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: h.catalog})
}
