package assessment

// Recommendation lines. Selection is driven purely by which factor types are
// present, the eligibility outcome and the level - no free-form text.
const (
	recHugEligible   = "HUG 보증보험 가입을 권장합니다"
	recHugIneligible = "HUG 보증보험 가입이 불가하므로 계약 재검토를 권장합니다"
	recRecheckDocs   = "등기부등본 재확인 권장 (최근 3개월 이내 발급본)"
	recLandlordCheck = "임대인의 재정 상태 및 다른 채무 여부 확인 필요"
	recNegotiate     = "전세가율이 높으므로 월세 전환 또는 보증금 인하 협상 검토"
	recTrustConsent  = "신탁원부를 확인하고 수탁사의 임대차 동의 여부를 반드시 확인하세요"
	recStatutory     = "계약 후 즉시 전입신고와 확정일자를 받아 대항력을 확보하세요"
)

// buildRecommendations assembles the ordered recommendation list for an
// assessment. The statutory move-in report / confirmed-date line is always
// appended last.
func buildRecommendations(level RiskLevel, hug HugEligibility, factors []RiskFactor) []string {
	recs := make([]string, 0, 5)

	if hug.IsEligible {
		recs = append(recs, recHugEligible)
	} else {
		recs = append(recs, recHugIneligible)
	}

	if level == RiskLevelCaution || level == RiskLevelRisky {
		recs = append(recs, recRecheckDocs, recLandlordCheck)
	}

	if hasFactor(factors, FactorTrustProperty) {
		recs = append(recs, recTrustConsent)
	}
	if hasFactor(factors, FactorHighLTV) {
		recs = append(recs, recNegotiate)
	}

	recs = append(recs, recStatutory)
	return recs
}

func hasFactor(factors []RiskFactor, t FactorType) bool {
	for _, f := range factors {
		if f.Type == t {
			return true
		}
	}
	return false
}
