package fanout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feedback-board-api/internal/realtime"
)

// Invalidator drops cached views
type Invalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
	InvalidatePaths(ctx context.Context, paths ...string) error
}

// Publisher delivers board events to connected clients
type Publisher interface {
	Publish(ctx context.Context, event realtime.Event) error
}

// Fanout runs after a handler committed its mutation. Failures are logged
// and swallowed; the caller's response never depends on them.
type Fanout struct {
	invalidator Invalidator
	publisher   Publisher
	logger      *zap.Logger
	timeout     time.Duration
}

// New creates a fan-out. publisher may be nil.
func New(invalidator Invalidator, publisher Publisher, logger *zap.Logger, timeout time.Duration) *Fanout {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Fanout{
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger,
		timeout:     timeout,
	}
}

// Apply invalidates everything the mutations made stale and announces them.
// It is detached from the request's cancellation: once the write committed,
// a client disconnect must not leave stale views behind.
func (f *Fanout) Apply(ctx context.Context, mutations ...Mutation) {
	if len(mutations) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	plan := Merge(mutations...)

	if err := f.invalidator.InvalidateTags(ctx, plan.Tags...); err != nil {
		f.logger.Error("Cache tag invalidation failed",
			zap.Strings("tags", plan.Tags),
			zap.Error(err),
		)
	}
	if err := f.invalidator.InvalidatePaths(ctx, plan.Paths...); err != nil {
		f.logger.Error("Cache path invalidation failed",
			zap.Strings("paths", plan.Paths),
			zap.Error(err),
		)
	}

	if f.publisher == nil {
		return
	}
	for _, m := range mutations {
		slug := m.BoardSlug
		if slug == "" {
			continue
		}
		event := realtime.Event{
			Type:             realtime.EventInvalidate,
			Board:            slug,
			Mutation:         string(m.Kind),
			FeatureRequestID: m.FeatureRequestID,
			Tags:             PlanFor(m).Tags,
		}
		if err := f.publisher.Publish(ctx, event); err != nil {
			f.logger.Warn("Failed to publish board event",
				zap.String("board", slug),
				zap.String("mutation", string(m.Kind)),
				zap.Error(err),
			)
		}
	}
}
