package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smart-classroom/scs-api/pkg/jobs"
)

const exportCleanupJobType = "export_cleanup"

// StartCleanup boots a background worker that purges expired export files on
// a fixed interval. Failed sweeps are retried by the queue.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) *jobs.Queue {
	if interval <= 0 {
		return nil
	}

	queue := jobs.NewQueue("export-maintenance", func(ctx context.Context, job jobs.Job) error {
		removed, err := s.Cleanup(s.cfg.ResultTTL)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
		}
		return nil
	}, jobs.QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 30 * time.Second, Logger: s.logger})

	queue.Start(ctx)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: exportCleanupJobType}); err != nil {
					s.logger.Warn("failed to enqueue export cleanup", zap.Error(err))
				}
			}
		}
	}()

	return queue
}
