package model

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Handle is the process-wide holder of the loaded forest. The artifact is
// loaded once at startup and shared read-only by all concurrent assessment
// calls; reloads (redeploying a retrained model) swap the pointer atomically
// so readers are never exposed to a half-updated model.
type Handle struct {
	forest atomic.Pointer[Forest]
	path   string
	log    zerolog.Logger
}

// NewHandle creates a handle bound to an artifact path and performs the
// initial load. Returns ErrModelUnavailable when the artifact cannot be
// loaded - the caller decides whether that is fatal.
func NewHandle(path string, log zerolog.Logger) (*Handle, error) {
	h := &Handle{
		path: path,
		log:  log.With().Str("component", "model").Logger(),
	}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload re-reads the artifact from disk and atomically swaps it in.
// On failure the previously loaded forest keeps serving.
func (h *Handle) Reload() error {
	forest, err := LoadForest(h.path)
	if err != nil {
		h.log.Error().Err(err).Str("path", h.path).Msg("Failed to load model artifact")
		return err
	}

	h.forest.Store(forest)
	h.log.Info().
		Str("path", h.path).
		Str("version", forest.Version).
		Int("trees", len(forest.Trees)).
		Int("features", len(forest.FeatureNames)).
		Msg("Model artifact loaded")
	return nil
}

// Predict implements Predictor by delegating to the current forest
func (h *Handle) Predict(features map[string]float64) (float64, error) {
	forest := h.forest.Load()
	if forest == nil {
		return 0, ErrModelUnavailable
	}
	return forest.Predict(features)
}

// Name implements Predictor
func (h *Handle) Name() string {
	forest := h.forest.Load()
	if forest == nil {
		return "forest/unloaded"
	}
	return forest.Name()
}

// Path returns the artifact path the handle loads from
func (h *Handle) Path() string {
	return h.path
}
