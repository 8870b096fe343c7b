package assessment

// HUG eligibility messages, one per outcome. The calculator only ever
// selects from this fixed set.
const (
	hugMsgEligible           = "HUG 전세보증금 반환보증 가입 가능"
	hugMsgTrust              = "신탁 부동산은 보증 가입이 불가합니다"
	hugMsgIllegal            = "위반 건축물은 보증 가입이 불가합니다"
	hugMsgRisky              = "위험 등급이 높아 보증 가입이 불가합니다"
	hugMsgIndeterminatePrice = "시세를 확인할 수 없어 보증 가입 여부를 판단할 수 없습니다"
)

// CalculateHugEligibility computes guarantee insurance eligibility and the
// safe coverage limit. The policy is deterministic and independent of the
// statistical model: trust registration, illegal-building status, a RISKY
// level, or an indeterminate market price each make the deposit ineligible.
//
// For eligible deposits the safe limit is the property's value net of senior
// liens, but never more than the deposit itself; the coverage ratio is the
// limit as a percentage of the deposit, capped at 100.
func CalculateHugEligibility(fv *FeatureVector, level RiskLevel) HugEligibility {
	switch {
	case fv.IsTrust:
		return ineligible(hugMsgTrust)
	case fv.IsIllegal:
		return ineligible(hugMsgIllegal)
	case level == RiskLevelRisky:
		return ineligible(hugMsgRisky)
	case fv.MarketPrice == nil:
		return ineligible(hugMsgIndeterminatePrice)
	}

	safeLimit := *fv.MarketPrice - fv.SeniorDebt
	if safeLimit < 0 {
		safeLimit = 0
	}
	if safeLimit > fv.Deposit {
		safeLimit = fv.Deposit
	}

	ratio := float64(safeLimit) / float64(fv.Deposit) * 100
	if ratio > 100 {
		ratio = 100
	}

	return HugEligibility{
		IsEligible:    true,
		SafeLimit:     safeLimit,
		CoverageRatio: ratio,
		Message:       hugMsgEligible,
	}
}

func ineligible(msg string) HugEligibility {
	return HugEligibility{
		IsEligible:    false,
		SafeLimit:     0,
		CoverageRatio: 0,
		Message:       msg,
	}
}
