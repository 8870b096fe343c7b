package assessment

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository persists completed assessments in assessments.db. Each address
// key holds only its latest result: re-assessing a property replaces the
// stored row (delete + insert in one transaction).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// StoredAssessment is the persisted form of a result, flattened for listing
// and stats aggregation
type StoredAssessment struct {
	ID            string     `json:"id"`
	AddressKey    string     `json:"address_key"`
	RegionCode    string     `json:"region_code"`
	Deposit       int64      `json:"deposit"`
	MarketPrice   *int64     `json:"market_price"`
	PriceSource   string     `json:"price_source"`
	SeniorDebt    int64      `json:"senior_debt"`
	JeonseRatio   *float64   `json:"jeonse_ratio"`
	RiskScore     float64    `json:"risk_score"`
	RiskLevel     RiskLevel  `json:"risk_level"`
	ModelProb     float64    `json:"-"`
	ModelDegraded bool       `json:"model_degraded,omitempty"`
	HugEligible   bool       `json:"hug_eligible"`
	HugSafeLimit  int64      `json:"hug_safe_limit"`
	AssessedAt    time.Time  `json:"assessed_at"`
}

// NewRepository creates an assessment repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "assessments").Logger(),
	}
}

// Save stores an assessment for an address key, replacing any previous
// result for the same key. Facts and result are stored together so the
// stats job can aggregate without re-deriving anything.
func (r *Repository) Save(facts PropertyFacts, result *RiskAssessment) error {
	addressKey := facts.AddressKey
	if addressKey == "" {
		// No address key means the caller doesn't want history; store
		// under the assessment id so the row is still listable.
		addressKey = result.ID
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM risk_assessments WHERE address_key = ?", addressKey); err != nil {
		return fmt.Errorf("failed to clear previous assessment for %s: %w", addressKey, err)
	}

	var marketPrice interface{}
	if facts.MarketPrice != nil {
		marketPrice = *facts.MarketPrice
	}
	var jeonseRatio interface{}
	if result.Details.JeonseRatio != nil {
		jeonseRatio = *result.Details.JeonseRatio
	}

	_, err = tx.Exec(`
		INSERT INTO risk_assessments (
			id, address_key, region_code, deposit, market_price, price_source,
			senior_debt, jeonse_ratio, risk_score, risk_level, model_prob,
			model_degraded, hug_eligible, hug_safe_limit, assessed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.ID, addressKey, facts.RegionCode, facts.Deposit, marketPrice,
		string(facts.PriceSource), facts.SeniorDebt, jeonseRatio,
		result.RiskScore, string(result.RiskLevel), result.ModelProb,
		boolToInt(result.ModelDegraded), boolToInt(result.HugResult.IsEligible),
		result.HugResult.SafeLimit, result.AssessedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment: %w", err)
	}

	r.log.Debug().Str("address_key", addressKey).Float64("score", result.RiskScore).Msg("Assessment saved")
	return nil
}

// ListRecent returns the most recently assessed rows, newest first
func (r *Repository) ListRecent(limit int) ([]StoredAssessment, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, address_key, region_code, deposit, market_price, price_source,
		       senior_debt, jeonse_ratio, risk_score, risk_level, model_prob,
		       model_degraded, hug_eligible, hug_safe_limit, assessed_at
		FROM risk_assessments
		ORDER BY assessed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent assessments: %w", err)
	}
	defer rows.Close()

	return scanStoredAssessments(rows)
}

// GetByAddressKey returns the stored result for an address key, or nil when
// the property has never been assessed
func (r *Repository) GetByAddressKey(addressKey string) (*StoredAssessment, error) {
	rows, err := r.db.Query(`
		SELECT id, address_key, region_code, deposit, market_price, price_source,
		       senior_debt, jeonse_ratio, risk_score, risk_level, model_prob,
		       model_degraded, hug_eligible, hug_safe_limit, assessed_at
		FROM risk_assessments
		WHERE address_key = ?
	`, addressKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment for %s: %w", addressKey, err)
	}
	defer rows.Close()

	results, err := scanStoredAssessments(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func scanStoredAssessments(rows *sql.Rows) ([]StoredAssessment, error) {
	var results []StoredAssessment
	for rows.Next() {
		var (
			sa            StoredAssessment
			marketPrice   sql.NullInt64
			jeonseRatio   sql.NullFloat64
			modelDegraded int
			hugEligible   int
			assessedAt    int64
			level         string
		)
		if err := rows.Scan(
			&sa.ID, &sa.AddressKey, &sa.RegionCode, &sa.Deposit, &marketPrice,
			&sa.PriceSource, &sa.SeniorDebt, &jeonseRatio, &sa.RiskScore,
			&level, &sa.ModelProb, &modelDegraded, &hugEligible,
			&sa.HugSafeLimit, &assessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}

		if marketPrice.Valid {
			v := marketPrice.Int64
			sa.MarketPrice = &v
		}
		if jeonseRatio.Valid {
			v := jeonseRatio.Float64
			sa.JeonseRatio = &v
		}
		sa.RiskLevel = RiskLevel(level)
		sa.ModelDegraded = modelDegraded != 0
		sa.HugEligible = hugEligible != 0
		sa.AssessedAt = time.Unix(assessedAt, 0).UTC()

		results = append(results, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}
	return results, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
