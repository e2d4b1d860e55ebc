// Package jobs provides scheduled background tasks for the booking engine.
//
// Jobs run on github.com/robfig/cron/v3 schedules and are coordinated by
// JobManager:
//
//	jobManager := jobs.NewJobManager(uowFactory, notifier, operatorChannel, threshold, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// The only job today is StaleBroadcastJob, which runs every minute and flags
// broadcasts that have gone unanswered past the configured threshold. Jobs
// here observe and notify; they do not drive state transitions.
package jobs
