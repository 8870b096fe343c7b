package assessment

import "math"

// =============================================================================
// SCORE COMPOSITION WEIGHTS
// =============================================================================
// The final score blends the classifier's probability with a weighted sum of
// rule findings. The blend is one deterministic formula, fixed here:
//
//	ruleTerm = min(sum(severity points), RulePointsCap) / RulePointsCap * 100
//	score    = clamp(ModelWeight*prob*100 + RuleWeight*ruleTerm, 0, 100)
//
// rounded to one decimal. The rule term is capped so that stacking many
// findings of the same underlying cause cannot push the blend past what
// three HIGH factors already express - the classifier carries interaction
// effects, the rules carry explanations.
//
// When the classifier fails at request time the model term's weight is
// redistributed into the rule term (the score becomes the rule term alone)
// and the assessment is marked model-degraded.

// ComposerConfig holds the score blend weights and level thresholds
type ComposerConfig struct {
	ModelWeight float64 // share of the classifier term
	RuleWeight  float64 // share of the rule term

	// Severity-to-points mapping for the rule term
	PointsHigh   float64
	PointsMedium float64
	PointsLow    float64

	// RulePointsCap saturates the summed points (three HIGH factors)
	RulePointsCap float64

	// Level thresholds, inclusive upper bounds: score <= SafeMax is SAFE,
	// score <= CautionMax is CAUTION, anything above is RISKY.
	SafeMax    float64
	CautionMax float64
}

// DefaultComposerConfig returns the production blend: 70% model, 30% rules
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		ModelWeight:   0.70,
		RuleWeight:    0.30,
		PointsHigh:    15,
		PointsMedium:  8,
		PointsLow:     3,
		RulePointsCap: 45,
		SafeMax:       40,
		CautionMax:    70,
	}
}

// Compose merges the classifier probability with the rule findings into the
// final bounded score and its level. When degraded is true the model term is
// dropped and its weight is redistributed to the rule term.
func (c ComposerConfig) Compose(modelProb float64, factors []RiskFactor, degraded bool) (float64, RiskLevel) {
	ruleTerm := c.ruleTerm(factors)

	var score float64
	if degraded {
		score = ruleTerm
	} else {
		score = c.ModelWeight*modelProb*100 + c.RuleWeight*ruleTerm
	}

	score = math.Round(clamp(score, 0, 100)*10) / 10
	return score, c.Level(score)
}

// Level maps a score to its risk level bucket. Boundaries are inclusive at
// the low end: exactly SafeMax is still SAFE, exactly CautionMax is CAUTION.
func (c ComposerConfig) Level(score float64) RiskLevel {
	switch {
	case score <= c.SafeMax:
		return RiskLevelSafe
	case score <= c.CautionMax:
		return RiskLevelCaution
	default:
		return RiskLevelRisky
	}
}

// ruleTerm converts the factor list into a 0-100 term
func (c ComposerConfig) ruleTerm(factors []RiskFactor) float64 {
	var points float64
	for _, f := range factors {
		switch f.Severity {
		case SeverityHigh:
			points += c.PointsHigh
		case SeverityMedium:
			points += c.PointsMedium
		case SeverityLow:
			points += c.PointsLow
		}
	}

	if points > c.RulePointsCap {
		points = c.RulePointsCap
	}
	return points / c.RulePointsCap * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
