package services

import (
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// ProgressCleanupService sweeps progress records that stopped receiving
// updates. Sessions abandoned mid-upload would otherwise sit in the
// in-memory store for the life of the process.
type ProgressCleanupService struct {
	progress ProgressStore
	maxIdle  time.Duration
	log      logger.Logger
}

func NewProgressCleanupService(progress ProgressStore, maxIdle time.Duration) *ProgressCleanupService {
	return &ProgressCleanupService{
		progress: progress,
		maxIdle:  maxIdle,
		log:      logger.New("progressCleanupService"),
	}
}

func (s *ProgressCleanupService) Sweep(ctx context.Context) error {
	log := s.log.Function("Sweep")

	removed := s.progress.ClearStale(s.maxIdle)
	log.Info("progress sweep finished", "removed", removed, "maxIdle", s.maxIdle.String())

	return nil
}
