package jobs

import (
	"context"

	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type ProgressCleanupJob struct {
	cleanup  *services.ProgressCleanupService
	log      logger.Logger
	schedule services.Schedule
}

func NewProgressCleanupJob(
	cleanup *services.ProgressCleanupService,
	schedule services.Schedule,
) *ProgressCleanupJob {
	log := logger.New("progressCleanupJob")
	log.Info("Creating new progress cleanup job", "schedule", schedule)

	return &ProgressCleanupJob{
		cleanup:  cleanup,
		log:      log,
		schedule: schedule,
	}
}

func (j *ProgressCleanupJob) Name() string {
	return "ProgressCleanup"
}

func (j *ProgressCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled progress cleanup")

	if err := j.cleanup.Sweep(ctx); err != nil {
		return log.Err("scheduled progress cleanup failed", err)
	}

	log.Info("Scheduled progress cleanup completed")
	return nil
}

func (j *ProgressCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
