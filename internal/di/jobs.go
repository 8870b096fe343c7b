// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/minjicho/jeonseguard/internal/modules/stats"
	"github.com/rs/zerolog"
)

// RegisterJobs creates all scheduler jobs.
// Returns JobInstances for schedule registration and manual triggering.
func RegisterJobs(container *Container, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.StatsService == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	instances := &JobInstances{
		StatsRefresh: stats.NewRefreshJob(container.StatsService),
	}

	log.Debug().Msg("Jobs registered")

	return instances, nil
}
