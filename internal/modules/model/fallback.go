package model

// FallbackPredictor is the rules-only stand-in used when no trained artifact
// is available. It maps the worst triggered heuristic to a probability, so
// the service can keep answering with a coarser score instead of refusing.
//
// The cutoffs mirror the heuristics the classifier was trained to refine;
// they intentionally produce only a handful of discrete probabilities.
type FallbackPredictor struct{}

// NewFallbackPredictor creates the rules-only predictor
func NewFallbackPredictor() *FallbackPredictor {
	return &FallbackPredictor{}
}

// Predict implements Predictor with threshold heuristics over the same
// feature map the forest consumes. Never fails.
func (p *FallbackPredictor) Predict(features map[string]float64) (float64, error) {
	var prob float64

	// Jeonse ratio bands
	switch jeonse := features[FeatJeonseRatio]; {
	case jeonse >= 80:
		prob = maxf(prob, 0.8)
	case jeonse >= 70:
		prob = maxf(prob, 0.5)
	}

	// Combined deposit + senior debt coverage
	switch total := features[FeatTotalRiskRatio]; {
	case total >= 90:
		prob = maxf(prob, 0.9)
	case total >= 80:
		prob = maxf(prob, 0.7)
	}

	// Trust ownership combined with short tenure
	if features[FeatIsTrust] > 0 && features[FeatOwnershipMonths] < 24 {
		prob = maxf(prob, 0.6)
	}

	if features[FeatIsIllegal] > 0 {
		prob = maxf(prob, 0.4)
	}

	return prob, nil
}

// Name implements Predictor
func (p *FallbackPredictor) Name() string {
	return "fallback/rules"
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
