package events

// AssessmentCompletedData is the payload for AssessmentCompleted events
type AssessmentCompletedData struct {
	AddressKey    string  `json:"address_key"`
	RegionCode    string  `json:"region_code"`
	RiskScore     float64 `json:"risk_score"`
	RiskLevel     string  `json:"risk_level"`
	ModelDegraded bool    `json:"model_degraded"`
}

// ModelReloadedData is the payload for ModelReloaded events
type ModelReloadedData struct {
	Version string `json:"version"`
}

// StatsRefreshedData is the payload for StatsRefreshed events
type StatsRefreshedData struct {
	Regions int `json:"regions"`
}
