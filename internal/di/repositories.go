// Package di provides dependency injection for repositories.
package di

import (
	"fmt"

	"github.com/minjicho/jeonseguard/internal/modules/assessment"
	"github.com/minjicho/jeonseguard/internal/modules/settings"
	"github.com/minjicho/jeonseguard/internal/modules/stats"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories on top of the databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.AssessmentsDB == nil || container.ConfigDB == nil {
		return fmt.Errorf("databases must be initialized before repositories")
	}

	container.SettingsRepo = settings.NewRepository(container.ConfigDB.Conn(), log)
	container.AssessmentRepo = assessment.NewRepository(container.AssessmentsDB.Conn(), log)
	container.StatsRepo = stats.NewRepository(container.AssessmentsDB.Conn(), log)

	log.Debug().Msg("Repositories initialized")

	return nil
}
