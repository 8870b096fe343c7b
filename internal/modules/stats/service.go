package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
)

// Service computes and serves regional aggregates
type Service struct {
	repo     *Repository
	composer assessment.ComposerConfig // for the mean-score level bucket
	bus      *events.Bus
	log      zerolog.Logger
}

// NewService creates a stats service
func NewService(repo *Repository, composer assessment.ComposerConfig, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		composer: composer,
		bus:      bus,
		log:      log.With().Str("component", "stats_service").Logger(),
	}
}

// Refresh rebuilds all region-month aggregates from the stored assessments.
// Returns the number of distinct regions aggregated.
func (s *Service) Refresh() (int, error) {
	samples, err := s.repo.RatioSamples()
	if err != nil {
		return 0, fmt.Errorf("failed to load ratio samples: %w", err)
	}

	// Group by region + month
	type key struct{ region, month string }
	groups := make(map[key][]ratioSample)
	for _, sample := range samples {
		k := key{sample.RegionCode, sample.DataMonth}
		groups[k] = append(groups[k], sample)
	}

	regions := make(map[string]struct{})
	now := time.Now()

	for k, group := range groups {
		ratios := make([]float64, len(group))
		scores := make([]float64, len(group))
		for i, sample := range group {
			ratios[i] = sample.JeonseRatio
			scores[i] = sample.RiskScore
		}
		sort.Float64s(ratios)

		meanRatio := stat.Mean(ratios, nil)
		meanScore := stat.Mean(scores, nil)

		// StdDev is NaN for a single sample; report 0 instead
		stddev := 0.0
		if len(ratios) > 1 {
			stddev = stat.StdDev(ratios, nil)
		}

		regional := RegionalStat{
			RegionCode:  k.region,
			DataMonth:   k.month,
			SampleCount: len(group),
			MeanRatio:   meanRatio,
			StddevRatio: stddev,
			P90Ratio:    stat.Quantile(0.9, stat.Empirical, ratios, nil),
			MeanScore:   meanScore,
			RiskLevel:   string(s.composer.Level(meanScore)),
			UpdatedAt:   now,
		}

		if err := s.repo.Upsert(regional); err != nil {
			return 0, err
		}
		regions[k.region] = struct{}{}
	}

	s.log.Info().Int("regions", len(regions)).Int("groups", len(groups)).Msg("Regional stats refreshed")

	if s.bus != nil {
		s.bus.Publish(events.StatsRefreshed, events.StatsRefreshedData{Regions: len(regions)})
	}
	return len(regions), nil
}

// Summary returns the latest aggregate per region
func (s *Service) Summary() ([]RegionalStat, error) {
	return s.repo.Summary()
}

// History returns the month-by-month aggregates for one region
func (s *Service) History(regionCode string) ([]RegionalStat, error) {
	return s.repo.History(regionCode)
}
