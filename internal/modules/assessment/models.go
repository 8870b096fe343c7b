// Package assessment implements the jeonse deposit risk assessment engine.
// It turns a verified set of property and transaction facts into a bounded
// risk score, an ordinal risk level, an ordered list of explanatory risk
// factors and a HUG guarantee insurance eligibility result.
//
// The engine is a pure function of structured input to structured output: it
// performs no I/O, holds no per-call state, and is safe for unlimited
// concurrent use. The only long-lived dependency is the statistical model,
// injected as a read-only model.Predictor.
package assessment

import "time"

// PriceSource identifies how the market price was resolved upstream
type PriceSource string

const (
	PriceSourceDBTrade       PriceSource = "DB_Trade"       // Recent real transaction data
	PriceSourceDBPublicPrice PriceSource = "DB_PublicPrice" // Official public price estimate
	PriceSourceExternal      PriceSource = "External"       // External appraisal API
	PriceSourceUnresolved    PriceSource = "Unresolved"     // No usable price found
)

// PropertyFacts is the engine's input: the pre-verified fact set extracted
// from the building ledger and the property registry, plus the resolved
// market price. All amounts are in won.
type PropertyFacts struct {
	// AddressKey and RegionCode identify the property for persistence and
	// regional statistics. They do not influence scoring.
	AddressKey string `json:"address_key"`
	RegionCode string `json:"region_code"`

	Deposit     int64       `json:"deposit"`
	MarketPrice *int64      `json:"market_price"` // nil when unresolved
	PriceSource PriceSource `json:"price_source"`
	SeniorDebt  int64       `json:"senior_debt"`

	IsTrustRegistered bool `json:"is_trust"`
	IsIllegalBuilding bool `json:"is_illegal_building"`

	OwnershipStart     *time.Time `json:"ownership_start"`     // nil when the registry didn't show it
	BuildingCompletion *time.Time `json:"building_completion"` // nil when unknown

	// DocumentsMatched is the upstream cross-document verification result.
	// The engine refuses to run when it is false.
	DocumentsMatched bool `json:"documents_matched"`

	// EvaluatedAt anchors all date arithmetic. Zero value means "now".
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// FactorType identifies a domain risk rule
type FactorType string

const (
	FactorHighLTV         FactorType = "HIGH_LTV"
	FactorSeniorDebt      FactorType = "SENIOR_DEBT"
	FactorTrustProperty   FactorType = "TRUST_PROPERTY"
	FactorIllegalBuilding FactorType = "ILLEGAL_BUILDING"
	FactorOwnershipPeriod FactorType = "OWNERSHIP_PERIOD"
	FactorOldBuilding     FactorType = "OLD_BUILDING"
)

// Severity grades a risk factor
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// severityRank orders severities for sorting (higher = more severe)
var severityRank = map[Severity]int{
	SeverityHigh:   3,
	SeverityMedium: 2,
	SeverityLow:    1,
}

// factorPriority breaks severity ties with a fixed type ordering
// (lower = earlier in the output list)
var factorPriority = map[FactorType]int{
	FactorTrustProperty:   1,
	FactorSeniorDebt:      2,
	FactorIllegalBuilding: 3,
	FactorHighLTV:         4,
	FactorOwnershipPeriod: 5,
	FactorOldBuilding:     6,
}

// RiskFactor is one triggered domain rule. Factors are immutable once
// produced; a single assessment carries zero to six of them, at most one per
// factor type.
type RiskFactor struct {
	Type     FactorType `json:"type"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Value    float64    `json:"value"` // The numeric value that triggered the rule
}

// RiskLevel is the ordinal bucket of the final score
type RiskLevel string

const (
	RiskLevelSafe    RiskLevel = "SAFE"    // score in [0, 40]
	RiskLevelCaution RiskLevel = "CAUTION" // score in (40, 70]
	RiskLevelRisky   RiskLevel = "RISKY"   // score in (70, 100]
)

// HugEligibility is the HUG guarantee insurance computation
type HugEligibility struct {
	IsEligible    bool    `json:"is_eligible"`
	SafeLimit     int64   `json:"safe_limit"`     // won, never exceeds the deposit
	CoverageRatio float64 `json:"coverage_ratio"` // percent, capped at 100
	Message       string  `json:"message"`
}

// Details carries the derived explanatory fields of an assessment
type Details struct {
	JeonseRatio       *float64 `json:"jeonse_ratio"` // percent, nil when indeterminate
	SeniorDebt        int64    `json:"senior_debt"`
	IsIllegalBuilding bool     `json:"is_illegal_building"`
	IsTrust           bool     `json:"is_trust"`
	BuildingAge       *float64 `json:"building_age"` // years, nil when unknown
	OwnershipMonths   *int     `json:"ownership_duration_months,omitempty"`
}

// RiskAssessment is the engine's output. It is created fresh per call and
// never mutated after construction.
type RiskAssessment struct {
	ID               string         `json:"id"`
	RiskScore        float64        `json:"risk_score"` // [0, 100], one decimal
	RiskLevel        RiskLevel      `json:"risk_level"`
	MajorRiskFactors []RiskFactor   `json:"major_risk_factors"`
	HugResult        HugEligibility `json:"hug_result"`
	Details          Details        `json:"details"`
	Recommendations  []string       `json:"recommendations"`

	// ModelProb is the raw classifier probability behind the score,
	// kept for persistence and auditing.
	ModelProb float64 `json:"-"`

	// ModelDegraded is set when the classifier failed at request time and
	// the score was composed from rules alone. Callers may surface a
	// disclaimer based on it.
	ModelDegraded bool `json:"model_degraded,omitempty"`

	AssessedAt time.Time `json:"assessed_at"`
}
