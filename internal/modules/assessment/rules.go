package assessment

import "fmt"

// RuleConfig enumerates every threshold the rule detector uses. All cutoffs
// live here so the rule table stays auditable and independently testable -
// no literals inside rule bodies.
type RuleConfig struct {
	HighLTVThresholdPct  float64 // jeonse ratio at or above this triggers HIGH_LTV
	HighLTVSeverePct     float64 // jeonse ratio at or above this makes HIGH_LTV severity HIGH
	SeniorDebtSeverePct  float64 // total risk ratio at or above this makes SENIOR_DEBT severity HIGH
	ShortOwnershipMonths int     // ownership shorter than this triggers OWNERSHIP_PERIOD
	OldBuildingYears     float64 // building age at or above this triggers OLD_BUILDING
}

// DefaultRuleConfig returns the production rule thresholds
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		HighLTVThresholdPct:  80,
		HighLTVSeverePct:     90,
		SeniorDebtSeverePct:  80,
		ShortOwnershipMonths: 6,
		OldBuildingYears:     30,
	}
}

// DetectFactors evaluates every domain rule against the normalized feature
// vector. Rules are pure predicates, evaluated independently - no rule
// observes another rule's output - and each triggered rule emits exactly one
// RiskFactor carrying the value that tripped it. The returned slice is
// unordered; ordering happens in the result assembler.
func DetectFactors(fv *FeatureVector, cfg RuleConfig) []RiskFactor {
	var factors []RiskFactor

	if f := detectHighLTV(fv, cfg); f != nil {
		factors = append(factors, *f)
	}
	if f := detectSeniorDebt(fv, cfg); f != nil {
		factors = append(factors, *f)
	}
	if f := detectTrustProperty(fv); f != nil {
		factors = append(factors, *f)
	}
	if f := detectIllegalBuilding(fv); f != nil {
		factors = append(factors, *f)
	}
	if f := detectOwnershipPeriod(fv, cfg); f != nil {
		factors = append(factors, *f)
	}
	if f := detectOldBuilding(fv, cfg); f != nil {
		factors = append(factors, *f)
	}

	return factors
}

// detectHighLTV flags a jeonse ratio at or above the threshold. Only
// evaluated when the ratio is resolvable - an unresolved market price leaves
// the LTV indeterminate rather than triggering or suppressing the factor
// with a fabricated value.
func detectHighLTV(fv *FeatureVector, cfg RuleConfig) *RiskFactor {
	if fv.JeonseRatio == nil {
		return nil
	}
	ratio := *fv.JeonseRatio
	if ratio < cfg.HighLTVThresholdPct {
		return nil
	}

	severity := SeverityMedium
	msg := fmt.Sprintf("전세가율이 %.1f%%로 다소 높음", ratio)
	if ratio >= cfg.HighLTVSeverePct {
		severity = SeverityHigh
		msg = fmt.Sprintf("전세가율이 %.1f%%로 매우 높음 (깡통전세 위험)", ratio)
	}

	return &RiskFactor{
		Type:     FactorHighLTV,
		Severity: severity,
		Message:  msg,
		Value:    ratio,
	}
}

// detectSeniorDebt flags any senior lien. Severity scales by the combined
// (deposit + senior debt) / market price ratio; when the market price is
// unresolved the debt is still a fact, but the severe cutoff cannot be
// checked, so severity stays MEDIUM.
func detectSeniorDebt(fv *FeatureVector, cfg RuleConfig) *RiskFactor {
	if fv.SeniorDebt <= 0 {
		return nil
	}

	severity := SeverityMedium
	if fv.TotalRiskRatio != nil && *fv.TotalRiskRatio >= cfg.SeniorDebtSeverePct {
		severity = SeverityHigh
	}

	return &RiskFactor{
		Type:     FactorSeniorDebt,
		Severity: severity,
		Message:  fmt.Sprintf("선순위 채권 %s원 존재 (보증금 회수 우선순위 낮음)", formatWon(fv.SeniorDebt)),
		Value:    float64(fv.SeniorDebt),
	}
}

// detectTrustProperty flags trust-registered ownership. Unconditionally
// HIGH: the registered titleholder may not be the true disposing party.
func detectTrustProperty(fv *FeatureVector) *RiskFactor {
	if !fv.IsTrust {
		return nil
	}
	return &RiskFactor{
		Type:     FactorTrustProperty,
		Severity: SeverityHigh,
		Message:  "신탁 부동산으로 소유자가 처분 권한이 없을 수 있음",
		Value:    1,
	}
}

func detectIllegalBuilding(fv *FeatureVector) *RiskFactor {
	if !fv.IsIllegal {
		return nil
	}
	return &RiskFactor{
		Type:     FactorIllegalBuilding,
		Severity: SeverityMedium,
		Message:  "위반 건축물로 등재됨 (법적 제재 가능)",
		Value:    1,
	}
}

// detectOwnershipPeriod flags short or unknown tenure. Unknown tenure is not
// assumed safe: a registry that shows no transfer date gets the same factor
// as a recent flip.
func detectOwnershipPeriod(fv *FeatureVector, cfg RuleConfig) *RiskFactor {
	if fv.OwnershipMonths == nil {
		return &RiskFactor{
			Type:     FactorOwnershipPeriod,
			Severity: SeverityMedium,
			Message:  "소유권 취득 시점을 확인할 수 없음",
			Value:    -1,
		}
	}

	months := *fv.OwnershipMonths
	if months >= cfg.ShortOwnershipMonths {
		return nil
	}

	return &RiskFactor{
		Type:     FactorOwnershipPeriod,
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("건물 소유 기간이 %d개월로 짧음 (갭투자 의심)", months),
		Value:    float64(months),
	}
}

func detectOldBuilding(fv *FeatureVector, cfg RuleConfig) *RiskFactor {
	if fv.BuildingAge == nil {
		// Unknown age is excluded from this factor rather than defaulted
		return nil
	}
	age := *fv.BuildingAge
	if age < cfg.OldBuildingYears {
		return nil
	}
	return &RiskFactor{
		Type:     FactorOldBuilding,
		Severity: SeverityLow,
		Message:  fmt.Sprintf("건물 연식 %.0f년으로 노후화됨", age),
		Value:    age,
	}
}

// formatWon renders an amount with thousands separators
func formatWon(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if amount < 0 {
		n-- // skip the sign
	}
	if n <= 3 {
		return s
	}

	var out []byte
	for i, c := range []byte(s) {
		out = append(out, c)
		rem := len(s) - 1 - i
		if rem > 0 && rem%3 == 0 && c != '-' {
			out = append(out, ',')
		}
	}
	return string(out)
}
