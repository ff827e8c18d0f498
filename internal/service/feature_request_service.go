package service

import (
	"context"
	"errors"
	"fmt"

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

// Listing defaults
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// FeatureRequestService defines the interface for feature request business logic
type FeatureRequestService interface {
	Create(ctx context.Context, board *domain.Board, actor *domain.User, req *dto.CreateFeatureRequestRequest) (*dto.FeatureRequestResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.FeatureRequestResponse, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID, boardSlug string, query *dto.ListFeatureRequestsQuery) (*dto.FeatureRequestListResponse, error)
	Update(ctx context.Context, fr *domain.FeatureRequest, req *dto.UpdateFeatureRequestRequest) (*dto.FeatureRequestResponse, error)
	UpdateStatus(ctx context.Context, fr *domain.FeatureRequest, actor *domain.User, req *dto.UpdateStatusRequest) (*dto.FeatureRequestResponse, error)
	Delete(ctx context.Context, fr *domain.FeatureRequest) error
}

type featureRequestServiceImpl struct {
	repo          repository.FeatureRequestRepository
	notifications client.NotificationClient
	sanitizer     *Sanitizer
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewFeatureRequestService creates a new instance of FeatureRequestService
func NewFeatureRequestService(
	repo repository.FeatureRequestRepository,
	notifications client.NotificationClient,
	sanitizer *Sanitizer,
	m *metrics.Metrics,
	logger *zap.Logger,
) FeatureRequestService {
	if notifications == nil {
		notifications = client.NewNoOpNotificationClient()
	}
	return &featureRequestServiceImpl{
		repo:          repo,
		notifications: notifications,
		sanitizer:     sanitizer,
		metrics:       m,
		logger:        logger,
	}
}

// Create submits a request to board on behalf of actor.
// The submitter's name and email are stored as a display snapshot.
func (s *featureRequestServiceImpl) Create(ctx context.Context, board *domain.Board, actor *domain.User, req *dto.CreateFeatureRequestRequest) (*dto.FeatureRequestResponse, error) {
	title := s.sanitizer.Plain(req.Title)
	if title == "" {
		return nil, response.NewValidationError("Title is required", "")
	}

	submitterID := actor.ID
	fr := &domain.FeatureRequest{
		BoardID:        board.ID,
		SubmitterID:    &submitterID,
		SubmitterName:  actor.Name,
		SubmitterEmail: actor.Email,
		Title:          title,
		Description:    s.sanitizer.Rich(req.Description),
		Status:         domain.StatusNew,
	}

	if err := s.repo.Create(ctx, fr); err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to create feature request", err)
	}
	fr.Board = *board

	s.metrics.IncrementFeatureRequestCreated()
	s.logger.Info("Feature request created",
		zap.String("feature_request_id", fr.ID.String()),
		zap.String("board_slug", board.Slug),
		zap.String("submitter_id", submitterID),
	)

	resp := dto.NewFeatureRequestResponse(fr)
	return &resp, nil
}

// Get renders one request with its board slug
func (s *featureRequestServiceImpl) Get(ctx context.Context, id uuid.UUID) (*dto.FeatureRequestResponse, error) {
	fr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Feature request not found", id.String())
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch feature request", err)
	}
	resp := dto.NewFeatureRequestResponse(fr)
	return &resp, nil
}

// ListByBoard renders one page of a board's requests
func (s *featureRequestServiceImpl) ListByBoard(ctx context.Context, boardID uuid.UUID, boardSlug string, query *dto.ListFeatureRequestsQuery) (*dto.FeatureRequestListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > dto.MaxListPage {
		return nil, response.NewValidationError("Page out of range", fmt.Sprintf("page must be at most %d", dto.MaxListPage))
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.FeatureRequestFilter{
		Sort:   query.Sort,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if query.Status != "" {
		status := domain.FeatureRequestStatus(query.Status)
		if !status.IsValid() {
			return nil, response.NewValidationError("Invalid status", query.Status)
		}
		filter.Status = &status
	}

	requests, total, err := s.repo.FindByBoard(ctx, boardID, filter)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to list feature requests", err)
	}

	items := make([]dto.FeatureRequestResponse, 0, len(requests))
	for _, fr := range requests {
		item := dto.NewFeatureRequestResponse(fr)
		item.BoardSlug = boardSlug
		items = append(items, item)
	}

	return &dto.FeatureRequestListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Update edits title or description
func (s *featureRequestServiceImpl) Update(ctx context.Context, fr *domain.FeatureRequest, req *dto.UpdateFeatureRequestRequest) (*dto.FeatureRequestResponse, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		title := s.sanitizer.Plain(*req.Title)
		if title == "" {
			return nil, response.NewValidationError("Title is required", "")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = s.sanitizer.Rich(*req.Description)
	}

	return s.apply(ctx, fr, updates)
}

// UpdateStatus moves the request to a new lifecycle state and tells the submitter
func (s *featureRequestServiceImpl) UpdateStatus(ctx context.Context, fr *domain.FeatureRequest, actor *domain.User, req *dto.UpdateStatusRequest) (*dto.FeatureRequestResponse, error) {
	if !req.Status.IsValid() {
		return nil, response.NewValidationError("Invalid status", string(req.Status))
	}
	previous := fr.Status

	resp, err := s.apply(ctx, fr, map[string]interface{}{"status": req.Status})
	if err != nil {
		return nil, err
	}

	if previous != req.Status && fr.SubmitterID != nil && *fr.SubmitterID != actor.ID {
		_ = s.notifications.SendNotification(context.WithoutCancel(ctx), client.NotificationEvent{
			Type:         client.NotificationStatusChanged,
			ActorID:      actor.ID,
			TargetUserID: *fr.SubmitterID,
			BoardSlug:    fr.Board.Slug,
			ResourceType: "feature_request",
			ResourceID:   fr.ID,
			ResourceName: fr.Title,
			Metadata: map[string]interface{}{
				"previousStatus": previous,
				"status":         req.Status,
			},
		})
	}
	return resp, nil
}

// Delete removes the request with its comments and upvotes
func (s *featureRequestServiceImpl) Delete(ctx context.Context, fr *domain.FeatureRequest) error {
	if err := s.repo.Delete(ctx, fr.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Feature request not found", fr.ID.String())
		}
		return response.WrapAppError(response.ErrCodeInternal, "Failed to delete feature request", err)
	}
	return nil
}

func (s *featureRequestServiceImpl) apply(ctx context.Context, fr *domain.FeatureRequest, updates map[string]interface{}) (*dto.FeatureRequestResponse, error) {
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, fr.ID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFoundError("Feature request not found", fr.ID.String())
			}
			return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to update feature request", err)
		}
	}

	updated, err := s.repo.FindByID(ctx, fr.ID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to reload feature request", err)
	}
	resp := dto.NewFeatureRequestResponse(updated)
	return &resp, nil
}
