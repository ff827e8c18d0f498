package dto

import (
	"time"

	"github.com/google/uuid"

	"feedback-board-api/internal/domain"
)

// CreateFeatureRequestRequest represents the request to submit a feature request
type CreateFeatureRequestRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200" example:"Dark mode"`
	Description string `json:"description" binding:"max=5000" example:"Please add a dark theme"`
}

// UpdateFeatureRequestRequest represents the request to edit a feature request. All fields are optional.
type UpdateFeatureRequestRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// UpdateStatusRequest moves a feature request through its lifecycle
type UpdateStatusRequest struct {
	Status domain.FeatureRequestStatus `json:"status" binding:"required,oneof=NEW IN_PROGRESS SHIPPED CANCELLED" example:"IN_PROGRESS"`
}

// MaxListPage bounds the page number so offsets stay small and each board
// has a bounded number of cached list variants
const MaxListPage = 1000

// ListFeatureRequestsQuery holds the listing query string
type ListFeatureRequestsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=NEW IN_PROGRESS SHIPPED CANCELLED"`
	Sort   string `form:"sort" binding:"omitempty,oneof=top newest oldest comments"`
	Page   int    `form:"page" binding:"omitempty,min=1,max=1000"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// FeatureRequestResponse represents the feature request response.
// submitterName and submitterEmail are display data only.
type FeatureRequestResponse struct {
	ID             uuid.UUID                   `json:"featureRequestId"`
	BoardID        uuid.UUID                   `json:"boardId"`
	BoardSlug      string                      `json:"boardSlug,omitempty"`
	SubmitterID    *string                     `json:"submitterId"`
	SubmitterName  string                      `json:"submitterName,omitempty"`
	SubmitterEmail string                      `json:"submitterEmail,omitempty"`
	Title          string                      `json:"title"`
	Description    string                      `json:"description"`
	Status         domain.FeatureRequestStatus `json:"status"`
	UpvoteCount    int64                       `json:"upvoteCount"`
	CommentCount   int64                       `json:"commentCount"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// NewFeatureRequestResponse converts a feature request
func NewFeatureRequestResponse(fr *domain.FeatureRequest) FeatureRequestResponse {
	return FeatureRequestResponse{
		ID:             fr.ID,
		BoardID:        fr.BoardID,
		BoardSlug:      fr.Board.Slug,
		SubmitterID:    fr.SubmitterID,
		SubmitterName:  fr.SubmitterName,
		SubmitterEmail: fr.SubmitterEmail,
		Title:          fr.Title,
		Description:    fr.Description,
		Status:         fr.Status,
		UpvoteCount:    fr.UpvoteCount,
		CommentCount:   fr.CommentCount,
		CreatedAt:      fr.CreatedAt,
		UpdatedAt:      fr.UpdatedAt,
	}
}

// FeatureRequestListResponse is one page of a board listing
type FeatureRequestListResponse struct {
	Items []FeatureRequestResponse `json:"items"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

// UpvoteResponse is the state after a toggle
type UpvoteResponse struct {
	FeatureRequestID uuid.UUID `json:"featureRequestId"`
	Upvoted          bool      `json:"upvoted"`
	UpvoteCount      int64     `json:"upvoteCount"`
}

// MyUpvotesResponse lists the requests on a board the caller upvoted
type MyUpvotesResponse struct {
	FeatureRequestIDs []uuid.UUID `json:"featureRequestIds"`
}
