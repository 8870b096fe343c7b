package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHug_EligibleFullCoverage(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     350_000_000,
		MarketPrice: i64p(500_000_000),
	}

	hug := CalculateHugEligibility(fv, RiskLevelSafe)
	assert.True(t, hug.IsEligible)
	assert.Equal(t, int64(350_000_000), hug.SafeLimit)
	assert.Equal(t, 100.0, hug.CoverageRatio)
	assert.Equal(t, hugMsgEligible, hug.Message)
}

func TestHug_SeniorDebtReducesSafeLimit(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     350_000_000,
		MarketPrice: i64p(400_000_000),
		SeniorDebt:  100_000_000,
	}

	hug := CalculateHugEligibility(fv, RiskLevelCaution)
	assert.True(t, hug.IsEligible)
	assert.Equal(t, int64(300_000_000), hug.SafeLimit)
	assert.InDelta(t, 85.71, hug.CoverageRatio, 0.01)
}

func TestHug_SafeLimitNeverExceedsDeposit(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     200_000_000,
		MarketPrice: i64p(900_000_000),
	}

	hug := CalculateHugEligibility(fv, RiskLevelSafe)
	assert.Equal(t, int64(200_000_000), hug.SafeLimit)
	assert.Equal(t, 100.0, hug.CoverageRatio)
}

func TestHug_SafeLimitFloorsAtZero(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     300_000_000,
		MarketPrice: i64p(250_000_000),
		SeniorDebt:  400_000_000,
	}

	hug := CalculateHugEligibility(fv, RiskLevelCaution)
	assert.True(t, hug.IsEligible)
	assert.Equal(t, int64(0), hug.SafeLimit)
	assert.Equal(t, 0.0, hug.CoverageRatio)
}

func TestHug_TrustIneligible(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     300_000_000,
		MarketPrice: i64p(500_000_000),
		IsTrust:     true,
	}

	hug := CalculateHugEligibility(fv, RiskLevelSafe)
	assert.False(t, hug.IsEligible)
	assert.Equal(t, int64(0), hug.SafeLimit)
	assert.Equal(t, hugMsgTrust, hug.Message)
}

func TestHug_IllegalBuildingIneligible(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     300_000_000,
		MarketPrice: i64p(500_000_000),
		IsIllegal:   true,
	}

	hug := CalculateHugEligibility(fv, RiskLevelSafe)
	assert.False(t, hug.IsEligible)
	assert.Equal(t, hugMsgIllegal, hug.Message)
}

func TestHug_RiskyLevelIneligible(t *testing.T) {
	fv := &FeatureVector{
		Deposit:     300_000_000,
		MarketPrice: i64p(500_000_000),
	}

	hug := CalculateHugEligibility(fv, RiskLevelRisky)
	assert.False(t, hug.IsEligible)
	assert.Equal(t, hugMsgRisky, hug.Message)
}

func TestHug_IndeterminatePriceIneligible(t *testing.T) {
	fv := &FeatureVector{
		Deposit: 300_000_000,
	}

	hug := CalculateHugEligibility(fv, RiskLevelSafe)
	assert.False(t, hug.IsEligible)
	assert.Equal(t, hugMsgIndeterminatePrice, hug.Message)
}

func TestHug_TrustTakesPrecedenceOverOtherReasons(t *testing.T) {
	// Trust + illegal + risky: the trust message wins
	fv := &FeatureVector{
		Deposit:   300_000_000,
		IsTrust:   true,
		IsIllegal: true,
	}

	hug := CalculateHugEligibility(fv, RiskLevelRisky)
	assert.Equal(t, hugMsgTrust, hug.Message)
}
