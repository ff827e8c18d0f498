package service

import (
	"context"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

// DashboardService aggregates per-user statistics
type DashboardService interface {
	Stats(ctx context.Context, userID string) (*dto.DashboardStatsResponse, error)
}

type dashboardServiceImpl struct {
	repo repository.FeatureRequestRepository
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(repo repository.FeatureRequestRepository) DashboardService {
	return &dashboardServiceImpl{repo: repo}
}

// Stats sums requests, upvotes and comments across the user's boards and
// counts the requests they submitted anywhere
func (s *dashboardServiceImpl) Stats(ctx context.Context, userID string) (*dto.DashboardStatsResponse, error) {
	stats, err := s.repo.StatsForOwner(ctx, userID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to compute dashboard stats", err)
	}
	submitted, err := s.repo.CountSubmittedBy(ctx, userID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to compute dashboard stats", err)
	}

	byStatus := make(map[domain.FeatureRequestStatus]int64, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		byStatus[status] = stats.ByStatus[status]
	}

	return &dto.DashboardStatsResponse{
		Boards:            stats.Boards,
		FeatureRequests:   stats.FeatureRequests,
		ByStatus:          byStatus,
		Upvotes:           stats.Upvotes,
		Comments:          stats.Comments,
		SubmittedRequests: submitted,
	}, nil
}
