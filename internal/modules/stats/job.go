package stats

// RefreshJob adapts the stats refresh to the scheduler's Job interface
type RefreshJob struct {
	service *Service
}

// NewRefreshJob creates the scheduled stats refresh job
func NewRefreshJob(service *Service) *RefreshJob {
	return &RefreshJob{service: service}
}

// Name implements scheduler.Job
func (j *RefreshJob) Name() string {
	return "stats_refresh"
}

// Run implements scheduler.Job
func (j *RefreshJob) Run() error {
	_, err := j.service.Refresh()
	return err
}
