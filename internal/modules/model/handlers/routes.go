package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all model routes. The router is expected to be
// mounted under the versioned API prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/model", func(r chi.Router) {
		r.Post("/reload", h.HandleReload)
		r.Get("/status", h.HandleStatus)
	})
}
