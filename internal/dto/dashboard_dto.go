package dto

import "feedback-board-api/internal/domain"

// DashboardStatsResponse aggregates the caller's boards and submissions
type DashboardStatsResponse struct {
	Boards            int64                                 `json:"boards"`
	FeatureRequests   int64                                 `json:"featureRequests"`
	ByStatus          map[domain.FeatureRequestStatus]int64 `json:"byStatus"`
	Upvotes           int64                                 `json:"upvotes"`
	Comments          int64                                 `json:"comments"`
	SubmittedRequests int64                                 `json:"submittedRequests"`
}
