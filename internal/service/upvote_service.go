package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

// UpvoteService defines the interface for upvote business logic
type UpvoteService interface {
	Toggle(ctx context.Context, fr *domain.FeatureRequest, actorID string) (*dto.UpvoteResponse, error)
	MyUpvotes(ctx context.Context, boardID uuid.UUID, actorID string) (*dto.MyUpvotesResponse, error)
}

type upvoteServiceImpl struct {
	repo    repository.UpvoteRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewUpvoteService creates a new instance of UpvoteService
func NewUpvoteService(repo repository.UpvoteRepository, m *metrics.Metrics, logger *zap.Logger) UpvoteService {
	return &upvoteServiceImpl{repo: repo, metrics: m, logger: logger}
}

// Toggle flips the actor's upvote. Losing a race to a concurrent toggle
// reads as already upvoted.
func (s *upvoteServiceImpl) Toggle(ctx context.Context, fr *domain.FeatureRequest, actorID string) (*dto.UpvoteResponse, error) {
	upvoted, count, err := s.repo.Toggle(ctx, fr.ID, actorID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to toggle upvote", err)
	}

	s.metrics.RecordUpvoteToggle(upvoted)
	s.logger.Debug("Upvote toggled",
		zap.String("feature_request_id", fr.ID.String()),
		zap.String("user_id", actorID),
		zap.Bool("upvoted", upvoted),
		zap.Int64("upvote_count", count),
	)

	return &dto.UpvoteResponse{
		FeatureRequestID: fr.ID,
		Upvoted:          upvoted,
		UpvoteCount:      count,
	}, nil
}

// MyUpvotes lists the requests on a board the actor has upvoted
func (s *upvoteServiceImpl) MyUpvotes(ctx context.Context, boardID uuid.UUID, actorID string) (*dto.MyUpvotesResponse, error) {
	ids, err := s.repo.FindUpvotedOnBoard(ctx, boardID, actorID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch upvotes", err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &dto.MyUpvotesResponse{FeatureRequestIDs: ids}, nil
}
