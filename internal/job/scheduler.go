package job

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs background jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler; panics inside jobs are recovered and logged
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(zap.NewStdLog(logger))),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger,
	}
}

// Add registers fn under name. An empty schedule disables the job.
func (s *Scheduler) Add(name, schedule string, fn func()) error {
	if schedule == "" {
		s.logger.Info("Background job disabled", zap.String("job", name))
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, fn); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, schedule, err)
	}
	s.logger.Info("Background job scheduled",
		zap.String("job", name),
		zap.String("schedule", schedule),
	)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or ctx, whichever ends first
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Background jobs did not finish before shutdown")
	}
}
