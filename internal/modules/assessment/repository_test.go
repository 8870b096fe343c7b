package assessment

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAssessmentTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE risk_assessments (
			id TEXT PRIMARY KEY,
			address_key TEXT NOT NULL,
			region_code TEXT NOT NULL DEFAULT '',
			deposit INTEGER NOT NULL,
			market_price INTEGER,
			price_source TEXT NOT NULL,
			senior_debt INTEGER NOT NULL DEFAULT 0,
			jeonse_ratio REAL,
			risk_score REAL NOT NULL,
			risk_level TEXT NOT NULL,
			model_prob REAL NOT NULL DEFAULT 0,
			model_degraded INTEGER NOT NULL DEFAULT 0,
			hug_eligible INTEGER NOT NULL DEFAULT 0,
			hug_safe_limit INTEGER NOT NULL DEFAULT 0,
			assessed_at INTEGER NOT NULL
		);
		CREATE UNIQUE INDEX idx_risk_assessments_address_key ON risk_assessments(address_key);
	`)
	require.NoError(t, err)

	return db
}

func storedResult(score float64, level RiskLevel, assessedAt time.Time) *RiskAssessment {
	ratio := 70.0
	return &RiskAssessment{
		ID:        "test-" + assessedAt.Format("20060102150405"),
		RiskScore: score,
		RiskLevel: level,
		HugResult: HugEligibility{IsEligible: true, SafeLimit: 350_000_000, CoverageRatio: 100},
		Details: Details{
			JeonseRatio: &ratio,
		},
		ModelProb:  score / 100,
		AssessedAt: assessedAt,
	}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	facts := validFacts()
	result := storedResult(41.0, RiskLevelCaution, evalDate)

	require.NoError(t, repo.Save(facts, result))

	stored, err := repo.GetByAddressKey(facts.AddressKey)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, result.ID, stored.ID)
	assert.Equal(t, facts.RegionCode, stored.RegionCode)
	assert.Equal(t, facts.Deposit, stored.Deposit)
	require.NotNil(t, stored.MarketPrice)
	assert.Equal(t, *facts.MarketPrice, *stored.MarketPrice)
	require.NotNil(t, stored.JeonseRatio)
	assert.Equal(t, 70.0, *stored.JeonseRatio)
	assert.Equal(t, 41.0, stored.RiskScore)
	assert.Equal(t, RiskLevelCaution, stored.RiskLevel)
	assert.True(t, stored.HugEligible)
	assert.Equal(t, int64(350_000_000), stored.HugSafeLimit)
	assert.Equal(t, evalDate.Unix(), stored.AssessedAt.Unix())
}

func TestRepository_ReassessmentReplacesRow(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	facts := validFacts()
	require.NoError(t, repo.Save(facts, storedResult(41.0, RiskLevelCaution, evalDate)))

	second := storedResult(75.5, RiskLevelRisky, evalDate.Add(24*time.Hour))
	require.NoError(t, repo.Save(facts, second))

	stored, err := repo.GetByAddressKey(facts.AddressKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 75.5, stored.RiskScore)
	assert.Equal(t, second.ID, stored.ID)

	// Only the latest result survives
	all, err := repo.ListRecent(100)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetUnknownAddressReturnsNil(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	stored, err := repo.GetByAddressKey("never-assessed")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRepository_ListRecentOrdersNewestFirst(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	for i, key := range []string{"addr-a", "addr-b", "addr-c"} {
		facts := validFacts()
		facts.AddressKey = key
		result := storedResult(30.0, RiskLevelSafe, evalDate.Add(time.Duration(i)*time.Hour))
		result.ID = key + "-id"
		require.NoError(t, repo.Save(facts, result))
	}

	recent, err := repo.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "addr-c", recent[0].AddressKey)
	assert.Equal(t, "addr-b", recent[1].AddressKey)
}

func TestRepository_EmptyAddressKeyFallsBackToID(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	facts := validFacts()
	facts.AddressKey = ""
	result := storedResult(20.0, RiskLevelSafe, evalDate)
	require.NoError(t, repo.Save(facts, result))

	stored, err := repo.GetByAddressKey(result.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.ID, stored.AddressKey)
}

func TestRepository_NilPriceStoredAsNull(t *testing.T) {
	repo := NewRepository(setupAssessmentTestDB(t), zerolog.Nop())

	facts := validFacts()
	facts.MarketPrice = nil
	facts.PriceSource = PriceSourceUnresolved
	result := storedResult(50.0, RiskLevelCaution, evalDate)
	result.Details.JeonseRatio = nil

	require.NoError(t, repo.Save(facts, result))

	stored, err := repo.GetByAddressKey(facts.AddressKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.MarketPrice)
	assert.Nil(t, stored.JeonseRatio)
}
