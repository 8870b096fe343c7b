package di

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjicho/jeonseguard/internal/config"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
)

func assessmentFacts() assessment.PropertyFacts {
	price := int64(500_000_000)
	ownership := time.Date(2020, time.March, 10, 0, 0, 0, 0, time.UTC)
	return assessment.PropertyFacts{
		AddressKey:       "seoul-mapo-101-503",
		RegionCode:       "11440",
		Deposit:          350_000_000,
		MarketPrice:      &price,
		PriceSource:      assessment.PriceSourceDBTrade,
		OwnershipStart:   &ownership,
		DocumentsMatched: true,
		EvaluatedAt:      time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

func testConfig(t *testing.T) *config.Config {
	dataDir := t.TempDir()
	return &config.Config{
		DataDir:              dataDir,
		Port:                 8000,
		LogLevel:             "error",
		ModelPath:            filepath.Join(dataDir, "models", "fraud_rf.msgpack"),
		ModelOptional:        true,
		StatsRefreshSchedule: "0 0 3 * * *",
	}
}

func TestWire_FullContainerWithFallbackPredictor(t *testing.T) {
	cfg := testConfig(t)

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	// Databases and repositories
	require.NotNil(t, container.AssessmentsDB)
	require.NotNil(t, container.ConfigDB)
	require.NotNil(t, container.SettingsRepo)
	require.NotNil(t, container.AssessmentRepo)
	require.NotNil(t, container.StatsRepo)

	// No artifact on disk, model optional: the rule fallback serves
	require.NotNil(t, container.Predictor)
	assert.Nil(t, container.ModelHandle)
	assert.Equal(t, "fallback/rules", container.Predictor.Name())

	require.NotNil(t, container.Engine)
	require.NotNil(t, container.StatsService)
	require.NotNil(t, container.EventBus)
	require.NotNil(t, jobs.StatsRefresh)
}

func TestWire_MissingRequiredModelFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelOptional = false

	container, _, err := Wire(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, container)
}

func TestWire_EndToEndAssessmentThroughContainer(t *testing.T) {
	cfg := testConfig(t)

	container, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	// The wired engine, repository and stats service work against the
	// migrated databases
	facts := assessmentFacts()
	result, err := container.Engine.Assess(facts)
	require.NoError(t, err)
	require.NoError(t, container.AssessmentRepo.Save(facts, result))

	stored, err := container.AssessmentRepo.GetByAddressKey(facts.AddressKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.RiskScore, stored.RiskScore)

	regions, err := container.StatsService.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 1, regions)
}
