// Package model wraps the trained fraud classifier behind a small capability
// interface. The engine treats the model as an opaque scoring function; the
// two implementations are the trained-artifact forest (Handle) and the
// rules-only FallbackPredictor, selected by availability at startup.
package model

import "errors"

// ErrModelUnavailable is returned when no trained artifact is loaded.
// At startup this is fatal unless the service is configured to run with the
// rules-only fallback.
var ErrModelUnavailable = errors.New("model artifact unavailable")

// Predictor scores a named feature map into a risk probability in [0, 1].
// Implementations must be safe for unlimited concurrent use.
type Predictor interface {
	// Predict returns the fraud/default probability for the feature map
	Predict(features map[string]float64) (float64, error)

	// Name identifies the implementation for logging and result auditing
	Name() string
}
