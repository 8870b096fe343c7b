// Package handlers provides HTTP handlers for model lifecycle operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/model"
	"github.com/rs/zerolog"
)

// Handler handles model lifecycle HTTP requests
type Handler struct {
	handle *model.Handle // nil when running on the rule fallback
	bus    *events.Bus
	log    zerolog.Logger
}

// NewHandler creates a new model handler
func NewHandler(handle *model.Handle, bus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		handle: handle,
		bus:    bus,
		log:    log.With().Str("handler", "model").Logger(),
	}
}

// HandleReload handles POST /api/v1/model/reload
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if h.handle == nil {
		http.Error(w, "No model artifact configured", http.StatusServiceUnavailable)
		return
	}

	if err := h.handle.Reload(); err != nil {
		h.log.Error().Err(err).Str("path", h.handle.Path()).Msg("Model reload failed")
		http.Error(w, "Model reload failed", http.StatusInternalServerError)
		return
	}

	h.bus.Publish(events.ModelReloaded, events.ModelReloadedData{
		Version: h.handle.Name(),
	})

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"model": h.handle.Name(),
			"path":  h.handle.Path(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleStatus handles GET /api/v1/model/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"degraded": h.handle == nil,
	}
	if h.handle != nil {
		data["model"] = h.handle.Name()
		data["path"] = h.handle.Path()
	} else {
		data["model"] = "fallback/rules"
	}

	response := map[string]interface{}{
		"data": data,
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
