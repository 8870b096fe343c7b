package assessment

import (
	"fmt"
	"time"

	"github.com/minjicho/jeonseguard/internal/modules/model"
)

// FeatureVector is the canonical, unit-fixed form of PropertyFacts that the
// rule detector and the statistical model both consume. Ratios are percents,
// periods are months/years. Nil means indeterminate, never zero-as-unknown.
type FeatureVector struct {
	Deposit     int64
	MarketPrice *int64
	SeniorDebt  int64

	// JeonseRatio = deposit / market price * 100. Nil when the price is
	// unresolved; downstream consumers must treat LTV-based checks as
	// indeterminate in that case instead of computing with garbage.
	JeonseRatio *float64

	// TotalRiskRatio = (deposit + senior debt) / market price * 100
	TotalRiskRatio *float64

	IsTrust   bool
	IsIllegal bool

	OwnershipMonths *int     // nil when the registry didn't show a transfer date
	BuildingAge     *float64 // years, nil when completion date is unknown

	EvaluatedAt time.Time
}

// Model feature imputation constants. The classifier cannot take nil, so
// indeterminate values are replaced with conservative stand-ins: an
// unresolved price is treated as a high-LTV situation, unknown tenure as a
// fresh purchase.
const (
	imputedJeonseRatioPct  = 90.0
	imputedTotalRiskPct    = 95.0
	imputedOwnershipMonths = 0.0
	imputedBuildingAge     = 10.0
)

// Normalize validates PropertyFacts and derives the feature vector.
// Fails with ErrInvalidInput when the facts are malformed: non-positive
// deposit, non-positive resolved price, negative senior debt, or any
// provided date in the future relative to the evaluation date.
func Normalize(facts PropertyFacts) (*FeatureVector, error) {
	evaluatedAt := facts.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}

	if facts.Deposit <= 0 {
		return nil, fmt.Errorf("%w: deposit must be positive, got %d", ErrInvalidInput, facts.Deposit)
	}
	if facts.SeniorDebt < 0 {
		return nil, fmt.Errorf("%w: senior debt must not be negative, got %d", ErrInvalidInput, facts.SeniorDebt)
	}
	if facts.OwnershipStart != nil && facts.OwnershipStart.After(evaluatedAt) {
		return nil, fmt.Errorf("%w: ownership start date %s is in the future", ErrInvalidInput, facts.OwnershipStart.Format("2006-01-02"))
	}
	if facts.BuildingCompletion != nil && facts.BuildingCompletion.After(evaluatedAt) {
		return nil, fmt.Errorf("%w: building completion date %s is in the future", ErrInvalidInput, facts.BuildingCompletion.Format("2006-01-02"))
	}

	fv := &FeatureVector{
		Deposit:     facts.Deposit,
		SeniorDebt:  facts.SeniorDebt,
		IsTrust:     facts.IsTrustRegistered,
		IsIllegal:   facts.IsIllegalBuilding,
		EvaluatedAt: evaluatedAt,
	}

	// Market-dependent ratios. An unresolved price (nil or tagged
	// Unresolved) leaves them nil rather than zero.
	if facts.MarketPrice != nil && facts.PriceSource != PriceSourceUnresolved {
		price := *facts.MarketPrice
		if price <= 0 {
			return nil, fmt.Errorf("%w: market price must be positive when resolved, got %d", ErrInvalidInput, price)
		}
		fv.MarketPrice = &price

		jeonse := float64(facts.Deposit) / float64(price) * 100
		fv.JeonseRatio = &jeonse

		total := float64(facts.Deposit+facts.SeniorDebt) / float64(price) * 100
		fv.TotalRiskRatio = &total
	}

	if facts.OwnershipStart != nil {
		months := monthsBetween(*facts.OwnershipStart, evaluatedAt)
		fv.OwnershipMonths = &months
	}

	if facts.BuildingCompletion != nil {
		age := evaluatedAt.Sub(*facts.BuildingCompletion).Hours() / 24 / 365.25
		fv.BuildingAge = &age
	}

	return fv, nil
}

// ModelFeatures flattens the vector into the named float features the
// classifier was trained on. Indeterminate values are imputed with the
// conservative constants above - never silently with zero.
func (fv *FeatureVector) ModelFeatures() map[string]float64 {
	features := map[string]float64{
		model.FeatJeonseRatio:     imputedJeonseRatioPct,
		model.FeatTotalRiskRatio:  imputedTotalRiskPct,
		model.FeatSeniorDebtRatio: 0,
		model.FeatIsTrust:         0,
		model.FeatIsIllegal:       0,
		model.FeatOwnershipMonths: imputedOwnershipMonths,
		model.FeatBuildingAge:     imputedBuildingAge,
	}

	if fv.JeonseRatio != nil {
		features[model.FeatJeonseRatio] = *fv.JeonseRatio
	}
	if fv.TotalRiskRatio != nil {
		features[model.FeatTotalRiskRatio] = *fv.TotalRiskRatio
	}
	if fv.MarketPrice != nil && *fv.MarketPrice > 0 {
		features[model.FeatSeniorDebtRatio] = float64(fv.SeniorDebt) / float64(*fv.MarketPrice) * 100
	}
	if fv.IsTrust {
		features[model.FeatIsTrust] = 1
	}
	if fv.IsIllegal {
		features[model.FeatIsIllegal] = 1
	}
	if fv.OwnershipMonths != nil {
		features[model.FeatOwnershipMonths] = float64(*fv.OwnershipMonths)
	}
	if fv.BuildingAge != nil {
		features[model.FeatBuildingAge] = *fv.BuildingAge
	}

	return features
}

// monthsBetween returns whole calendar months from a to b (a <= b).
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
