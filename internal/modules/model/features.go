package model

// Feature names shared between the engine's normalizer, the trained
// artifact's feature list and the fallback predictor. Ratios are percents,
// booleans are 0/1.
const (
	FeatJeonseRatio     = "jeonse_ratio"
	FeatTotalRiskRatio  = "total_risk_ratio"
	FeatSeniorDebtRatio = "senior_debt_ratio"
	FeatIsTrust         = "is_trust_owner"
	FeatIsIllegal       = "is_illegal"
	FeatOwnershipMonths = "ownership_months"
	FeatBuildingAge     = "building_age"
)
