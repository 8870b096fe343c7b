// Package handlers provides HTTP handlers for regional statistics.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minjicho/jeonseguard/internal/modules/stats"
	"github.com/rs/zerolog"
)

// Handler handles regional statistics HTTP requests
type Handler struct {
	service *stats.Service
	log     zerolog.Logger
}

// NewHandler creates a new stats handler
func NewHandler(service *stats.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "stats").Logger(),
	}
}

// HandleSummary handles GET /api/stats/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load stats summary")
		http.Error(w, "Failed to load stats summary", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"regions": regions,
			"count":   len(regions),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleHistory handles GET /api/stats/history/{regionCode}
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	regionCode := chi.URLParam(r, "regionCode")
	if regionCode == "" {
		http.Error(w, "regionCode is required", http.StatusBadRequest)
		return
	}

	history, err := h.service.History(regionCode)
	if err != nil {
		h.log.Error().Err(err).Str("region", regionCode).Msg("Failed to load stats history")
		http.Error(w, "Failed to load stats history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"region_code": regionCode,
			"months":      history,
			"count":       len(history),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleRefresh handles POST /api/stats/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Refresh()
	if err != nil {
		h.log.Error().Err(err).Msg("Stats refresh failed")
		http.Error(w, "Stats refresh failed", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"regions_updated": regions,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
