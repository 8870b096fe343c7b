package assessment

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minjicho/jeonseguard/internal/modules/model"
)

// Engine is the risk assessment engine. It is stateless across calls; the
// predictor is the only shared dependency and is read-only, so a single
// Engine serves unlimited concurrent Assess calls without locking.
type Engine struct {
	predictor model.Predictor
	rules     RuleConfig
	composer  ComposerConfig
	log       zerolog.Logger
}

// NewEngine creates an engine with the given predictor and rule/blend configuration
func NewEngine(predictor model.Predictor, rules RuleConfig, composer ComposerConfig, log zerolog.Logger) *Engine {
	return &Engine{
		predictor: predictor,
		rules:     rules,
		composer:  composer,
		log:       log.With().Str("component", "assessment_engine").Logger(),
	}
}

// Assess runs the full pipeline: verification gate, normalization, rule
// detection, model inference, score composition, eligibility and assembly.
// It either returns a complete RiskAssessment or fails - never a partial
// result.
//
// A prediction failure does not fail the call: the engine degrades to
// rules-only scoring and marks the result, per the documented fallback path.
func (e *Engine) Assess(facts PropertyFacts) (*RiskAssessment, error) {
	if !facts.DocumentsMatched {
		return nil, ErrUnverifiedDocuments
	}

	fv, err := Normalize(facts)
	if err != nil {
		return nil, err
	}

	factors := DetectFactors(fv, e.rules)

	modelProb := 0.0
	degraded := false
	prob, err := e.predictor.Predict(fv.ModelFeatures())
	if err != nil {
		// Request-time inference failure is recovered locally: the rule
		// term absorbs the model weight and the result is marked.
		e.log.Warn().Err(err).Str("predictor", e.predictor.Name()).
			Msg("Model inference failed, falling back to rules-only score")
		degraded = true
	} else {
		modelProb = clamp(prob, 0, 1)
	}

	score, level := e.composer.Compose(modelProb, factors, degraded)
	hug := CalculateHugEligibility(fv, level)

	return e.assemble(facts, fv, factors, score, level, modelProb, degraded, hug), nil
}

// assemble orders factors, builds recommendations and packages the output contract
func (e *Engine) assemble(
	facts PropertyFacts,
	fv *FeatureVector,
	factors []RiskFactor,
	score float64,
	level RiskLevel,
	modelProb float64,
	degraded bool,
	hug HugEligibility,
) *RiskAssessment {
	orderFactors(factors)

	return &RiskAssessment{
		ID:               uuid.NewString(),
		RiskScore:        score,
		RiskLevel:        level,
		MajorRiskFactors: factors,
		HugResult:        hug,
		Details: Details{
			JeonseRatio:       fv.JeonseRatio,
			SeniorDebt:        fv.SeniorDebt,
			IsIllegalBuilding: fv.IsIllegal,
			IsTrust:           fv.IsTrust,
			BuildingAge:       fv.BuildingAge,
			OwnershipMonths:   fv.OwnershipMonths,
		},
		Recommendations: buildRecommendations(level, hug, factors),
		ModelProb:       modelProb,
		ModelDegraded:   degraded,
		AssessedAt:      fv.EvaluatedAt,
	}
}

// orderFactors sorts severity descending, ties broken by the fixed factor
// type priority. The sort is deterministic so identical inputs produce
// identical output.
func orderFactors(factors []RiskFactor) {
	sort.SliceStable(factors, func(i, j int) bool {
		si, sj := severityRank[factors[i].Severity], severityRank[factors[j].Severity]
		if si != sj {
			return si > sj
		}
		return factorPriority[factors[i].Type] < factorPriority[factors[j].Type]
	})
}
