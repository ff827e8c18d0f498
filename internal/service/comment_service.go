package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-board-api/internal/client"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	Create(ctx context.Context, fr *domain.FeatureRequest, actor *domain.User, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListByFeatureRequest(ctx context.Context, featureRequestID uuid.UUID) ([]dto.CommentResponse, error)
	Update(ctx context.Context, comment *domain.Comment, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, comment *domain.Comment) (int64, error)
}

type commentServiceImpl struct {
	repo          repository.CommentRepository
	notifications client.NotificationClient
	sanitizer     *Sanitizer
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	repo repository.CommentRepository,
	notifications client.NotificationClient,
	sanitizer *Sanitizer,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	if notifications == nil {
		notifications = client.NewNoOpNotificationClient()
	}
	return &commentServiceImpl{
		repo:          repo,
		notifications: notifications,
		sanitizer:     sanitizer,
		metrics:       m,
		logger:        logger,
	}
}

// Create adds a comment, or a reply when ParentCommentID is set.
// Replies must target a top-level comment of the same request.
func (s *commentServiceImpl) Create(ctx context.Context, fr *domain.FeatureRequest, actor *domain.User, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content := s.sanitizer.Rich(req.Content)
	if content == "" {
		return nil, response.NewValidationError("Comment content is required", "")
	}

	var parent *domain.Comment
	if req.ParentCommentID != nil {
		p, err := s.repo.FindByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewValidationError("Parent comment not found", req.ParentCommentID.String())
			}
			return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch parent comment", err)
		}
		if p.FeatureRequestID != fr.ID {
			return nil, response.NewValidationError("Parent comment belongs to another feature request", p.ID.String())
		}
		if p.IsReply() {
			return nil, response.NewValidationError("Cannot reply to a reply", p.ID.String())
		}
		parent = p
	}

	authorID := actor.ID
	comment := &domain.Comment{
		FeatureRequestID: fr.ID,
		AuthorID:         &authorID,
		ParentCommentID:  req.ParentCommentID,
		Content:          content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to create comment", err)
	}
	comment.Author = actor

	s.metrics.IncrementCommentCreated()
	s.notify(ctx, fr, parent, actor)

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

// notify tells the submitter, the board owner and a replied-to author about
// a new comment. Nobody is notified about their own comment.
func (s *commentServiceImpl) notify(ctx context.Context, fr *domain.FeatureRequest, parent *domain.Comment, actor *domain.User) {
	seen := map[string]bool{actor.ID: true}
	var events []client.NotificationEvent

	add := func(target string, kind client.NotificationType) {
		if target == "" || seen[target] {
			return
		}
		seen[target] = true
		events = append(events, client.NotificationEvent{
			Type:         kind,
			ActorID:      actor.ID,
			TargetUserID: target,
			BoardSlug:    fr.Board.Slug,
			ResourceType: "feature_request",
			ResourceID:   fr.ID,
			ResourceName: fr.Title,
		})
	}

	if parent != nil && parent.AuthorID != nil {
		add(*parent.AuthorID, client.NotificationReplyAdded)
	}
	if fr.SubmitterID != nil {
		add(*fr.SubmitterID, client.NotificationCommentAdded)
	}
	add(fr.Board.CreatorID, client.NotificationCommentAdded)

	if len(events) > 0 {
		_ = s.notifications.SendBulkNotifications(context.WithoutCancel(ctx), events)
	}
}

// ListByFeatureRequest renders the comment thread, replies nested under their parents
func (s *commentServiceImpl) ListByFeatureRequest(ctx context.Context, featureRequestID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.repo.FindByFeatureRequest(ctx, featureRequestID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch comments", err)
	}
	return dto.NewCommentThread(comments), nil
}

// Update replaces the content and marks the comment edited
func (s *commentServiceImpl) Update(ctx context.Context, comment *domain.Comment, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	content := s.sanitizer.Rich(req.Content)
	if content == "" {
		return nil, response.NewValidationError("Comment content is required", "")
	}

	if err := s.repo.UpdateContent(ctx, comment.ID, content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", comment.ID.String())
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to update comment", err)
	}

	updated := *comment
	updated.Content = content
	updated.IsEdited = true
	resp := dto.NewCommentResponse(&updated)
	return &resp, nil
}

// Delete removes the comment and its replies and reports how many rows went
func (s *commentServiceImpl) Delete(ctx context.Context, comment *domain.Comment) (int64, error) {
	removed, err := s.repo.Delete(ctx, comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, response.NewNotFoundError("Comment not found", comment.ID.String())
		}
		return 0, response.WrapAppError(response.ErrCodeInternal, "Failed to delete comment", err)
	}

	s.logger.Info("Comment deleted",
		zap.String("comment_id", comment.ID.String()),
		zap.String("feature_request_id", comment.FeatureRequestID.String()),
		zap.Int64("removed", removed),
	)
	return removed, nil
}
