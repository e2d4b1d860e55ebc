package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"booking/internal/core/application/usecases/commands"
	"booking/internal/core/ports"
)

// JobManager coordinates the application's scheduled jobs behind one
// start/stop interface.
type JobManager struct {
	staleBroadcastJob *StaleBroadcastJob
}

// NewJobManager creates a job manager with all background jobs wired.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	notifier ports.NotificationDispatcher,
	operatorChannel string,
	staleThreshold time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleBroadcastJob: NewStaleBroadcastJob(uowFactory, notifier, operatorChannel, staleThreshold, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.staleBroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale broadcast job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleBroadcastJob.Stop()
}
