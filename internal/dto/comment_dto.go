package dto

import (
	"time"

	"github.com/google/uuid"

	"feedback-board-api/internal/domain"
)

// CreateCommentRequest represents the request to create a new comment
// @Description parentCommentId makes the comment a reply; it must reference a top-level comment of the same request
type CreateCommentRequest struct {
	Content         string     `json:"content" binding:"required,min=1,max=5000"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
}

// UpdateCommentRequest represents the request to update a comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentAuthor is the display data of a comment's author
type CommentAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	ID               uuid.UUID         `json:"commentId"`
	FeatureRequestID uuid.UUID         `json:"featureRequestId"`
	ParentCommentID  *uuid.UUID        `json:"parentCommentId,omitempty"`
	AuthorID         *string           `json:"authorId"`
	Author           *CommentAuthor    `json:"author,omitempty"`
	Content          string            `json:"content"`
	IsEdited         bool              `json:"isEdited"`
	Replies          []CommentResponse `json:"replies,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// NewCommentResponse converts a comment without replies
func NewCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:               c.ID,
		FeatureRequestID: c.FeatureRequestID,
		ParentCommentID:  c.ParentCommentID,
		AuthorID:         c.AuthorID,
		Content:          c.Content,
		IsEdited:         c.IsEdited,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Author != nil {
		resp.Author = &CommentAuthor{ID: c.Author.ID, Name: c.Author.Name, Image: c.Author.Image}
	}
	return resp
}

// NewCommentThread nests replies under their top-level comments, keeping input order
func NewCommentThread(comments []*domain.Comment) []CommentResponse {
	thread := make([]CommentResponse, 0, len(comments))
	index := make(map[uuid.UUID]int)

	for _, c := range comments {
		if c.ParentCommentID == nil {
			index[c.ID] = len(thread)
			thread = append(thread, NewCommentResponse(c))
		}
	}
	for _, c := range comments {
		if c.ParentCommentID == nil {
			continue
		}
		if i, ok := index[*c.ParentCommentID]; ok {
			thread[i].Replies = append(thread[i].Replies, NewCommentResponse(c))
		}
	}
	return thread
}

// DeleteCommentResponse reports how many comments went, replies included
type DeleteCommentResponse struct {
	Removed int64 `json:"removed"`
}
