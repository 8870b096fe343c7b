package stats

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository reads ratio samples from the stored assessments and persists
// the regional aggregates. Both tables live in assessments.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a stats repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "stats").Logger(),
	}
}

// RatioSamples returns every stored assessment with a resolvable jeonse
// ratio and a region code, tagged with its YYYY-MM month
func (r *Repository) RatioSamples() ([]ratioSample, error) {
	rows, err := r.db.Query(`
		SELECT region_code,
		       strftime('%Y-%m', assessed_at, 'unixepoch') AS data_month,
		       jeonse_ratio,
		       risk_score
		FROM risk_assessments
		WHERE jeonse_ratio IS NOT NULL AND region_code != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratio samples: %w", err)
	}
	defer rows.Close()

	var samples []ratioSample
	for rows.Next() {
		var s ratioSample
		if err := rows.Scan(&s.RegionCode, &s.DataMonth, &s.JeonseRatio, &s.RiskScore); err != nil {
			return nil, fmt.Errorf("failed to scan ratio sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratio samples: %w", err)
	}
	return samples, nil
}

// Upsert writes one region-month aggregate row
func (r *Repository) Upsert(stat RegionalStat) error {
	_, err := r.db.Exec(`
		INSERT INTO regional_stats (
			region_code, data_month, sample_count, mean_ratio, stddev_ratio,
			p90_ratio, mean_score, risk_level, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_code, data_month) DO UPDATE SET
			sample_count = excluded.sample_count,
			mean_ratio = excluded.mean_ratio,
			stddev_ratio = excluded.stddev_ratio,
			p90_ratio = excluded.p90_ratio,
			mean_score = excluded.mean_score,
			risk_level = excluded.risk_level,
			updated_at = excluded.updated_at
	`,
		stat.RegionCode, stat.DataMonth, stat.SampleCount, stat.MeanRatio,
		stat.StddevRatio, stat.P90Ratio, stat.MeanScore, stat.RiskLevel,
		stat.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert regional stat %s/%s: %w", stat.RegionCode, stat.DataMonth, err)
	}
	return nil
}

// Summary returns the latest month's aggregate for every region
func (r *Repository) Summary() ([]RegionalStat, error) {
	rows, err := r.db.Query(`
		SELECT region_code, data_month, sample_count, mean_ratio, stddev_ratio,
		       p90_ratio, mean_score, risk_level, updated_at
		FROM regional_stats AS rs
		WHERE data_month = (
			SELECT MAX(data_month) FROM regional_stats WHERE region_code = rs.region_code
		)
		ORDER BY region_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats summary: %w", err)
	}
	defer rows.Close()

	return scanRegionalStats(rows)
}

// History returns every month's aggregate for one region, oldest first
func (r *Repository) History(regionCode string) ([]RegionalStat, error) {
	rows, err := r.db.Query(`
		SELECT region_code, data_month, sample_count, mean_ratio, stddev_ratio,
		       p90_ratio, mean_score, risk_level, updated_at
		FROM regional_stats
		WHERE region_code = ?
		ORDER BY data_month
	`, regionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats history for %s: %w", regionCode, err)
	}
	defer rows.Close()

	return scanRegionalStats(rows)
}

func scanRegionalStats(rows *sql.Rows) ([]RegionalStat, error) {
	var stats []RegionalStat
	for rows.Next() {
		var (
			s         RegionalStat
			updatedAt int64
		)
		if err := rows.Scan(
			&s.RegionCode, &s.DataMonth, &s.SampleCount, &s.MeanRatio,
			&s.StddevRatio, &s.P90Ratio, &s.MeanScore, &s.RiskLevel, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan regional stat: %w", err)
		}
		s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate regional stats: %w", err)
	}
	return stats, nil
}
