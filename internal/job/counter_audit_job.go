package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/repository"
)

const auditTimeout = 30 * time.Second

// DriftFinder reports feature requests whose stored counters disagree with their rows
type DriftFinder interface {
	FindCounterDrift(ctx context.Context) ([]repository.CounterDrift, error)
}

// CounterAuditJob compares upvote_count and comment_count against the
// upvote and comment rows. It only reports; counters are never rewritten.
type CounterAuditJob struct {
	finder  DriftFinder
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCounterAuditJob creates a new CounterAuditJob instance
func NewCounterAuditJob(finder DriftFinder, m *metrics.Metrics, logger *zap.Logger) *CounterAuditJob {
	return &CounterAuditJob{
		finder:  finder,
		metrics: m,
		logger:  logger,
	}
}

// Run executes the audit once
func (j *CounterAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	j.logger.Debug("Starting counter audit")

	drift, err := j.finder.FindCounterDrift(ctx)
	if err != nil {
		j.logger.Error("Failed to audit feature request counters", zap.Error(err))
		return
	}

	upvoteRows, commentRows := 0, 0
	for _, d := range drift {
		if d.UpvoteCount != d.ActualUpvotes {
			upvoteRows++
		}
		if d.CommentCount != d.ActualComments {
			commentRows++
		}
		j.logger.Warn("Feature request counter drift",
			zap.String("feature_request_id", d.ID.String()),
			zap.Int64("upvote_count", d.UpvoteCount),
			zap.Int64("actual_upvotes", d.ActualUpvotes),
			zap.Int64("comment_count", d.CommentCount),
			zap.Int64("actual_comments", d.ActualComments),
		)
	}

	j.metrics.SetCounterDrift("upvote_count", upvoteRows)
	j.metrics.SetCounterDrift("comment_count", commentRows)

	j.logger.Info("Counter audit completed",
		zap.Int("upvote_drift", upvoteRows),
		zap.Int("comment_drift", commentRows),
	)
}
