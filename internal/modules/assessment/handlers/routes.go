package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all assessment routes. The router is expected to
// be mounted under the versioned API prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assess", h.HandleAssess)
	r.Get("/assessments/recent", h.HandleListRecent)
}
