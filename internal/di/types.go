// Package di provides dependency injection wiring and initialization.
//
// The Container is the single source of truth for all service instances and
// is handed to the HTTP layer for access to them.
package di

import (
	"github.com/minjicho/jeonseguard/internal/database"
	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
	"github.com/minjicho/jeonseguard/internal/modules/model"
	"github.com/minjicho/jeonseguard/internal/modules/settings"
	"github.com/minjicho/jeonseguard/internal/modules/stats"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	AssessmentsDB *database.DB
	ConfigDB      *database.DB

	// Repositories
	SettingsRepo   *settings.Repository
	AssessmentRepo *assessment.Repository
	StatsRepo      *stats.Repository

	// Model. Predictor is what the engine scores with; ModelHandle is the
	// reloadable artifact behind it, nil when running on the rule fallback.
	Predictor   model.Predictor
	ModelHandle *model.Handle

	// Services
	Engine       *assessment.Engine
	StatsService *stats.Service

	// Events
	EventBus *events.Bus
}

// Close releases all held resources
func (c *Container) Close() {
	if c.AssessmentsDB != nil {
		c.AssessmentsDB.Close()
	}
	if c.ConfigDB != nil {
		c.ConfigDB.Close()
	}
}

// JobInstances holds scheduler jobs for registration and manual triggering
type JobInstances struct {
	StatsRefresh *stats.RefreshJob
}
