// Package stats maintains regional jeonse-ratio statistics aggregated from
// stored assessments. Aggregates are rebuilt by a scheduled job and served
// read-only by the stats endpoints.
package stats

import "time"

// RegionalStat is one region-month aggregate row
type RegionalStat struct {
	RegionCode  string    `json:"region_code"`
	DataMonth   string    `json:"data_month"` // YYYY-MM
	SampleCount int       `json:"sample_count"`
	MeanRatio   float64   `json:"mean_ratio"`   // mean jeonse ratio, percent
	StddevRatio float64   `json:"stddev_ratio"` // 0 for single-sample months
	P90Ratio    float64   `json:"p90_ratio"`
	MeanScore   float64   `json:"mean_score"`
	RiskLevel   string    `json:"risk_level"` // level bucket of the mean score
	UpdatedAt   time.Time `json:"updated_at"`
}

// ratioSample is one stored assessment's contribution to the aggregates
type ratioSample struct {
	RegionCode  string
	DataMonth   string
	JeonseRatio float64
	RiskScore   float64
}
