// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/minjicho/jeonseguard/internal/config"
	"github.com/minjicho/jeonseguard/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens both databases and applies schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// assessments.db - scored assessments and regional aggregates
	assessmentsDB, err := database.New(database.Config{
		Path:    cfg.DataDir + "/assessments.db",
		Profile: database.ProfileStandard,
		Name:    "assessments",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assessments database: %w", err)
	}
	container.AssessmentsDB = assessmentsDB

	// config.db - runtime settings
	configDB, err := database.New(database.Config{
		Path:    cfg.DataDir + "/config.db",
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		assessmentsDB.Close()
		return nil, fmt.Errorf("failed to initialize config database: %w", err)
	}
	container.ConfigDB = configDB

	if err := assessmentsDB.Migrate(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to migrate assessments database: %w", err)
	}
	if err := configDB.Migrate(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to migrate config database: %w", err)
	}

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized")

	return container, nil
}
