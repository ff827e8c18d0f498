package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"feedback-board-api/internal/domain"
)

// CreateBoardRequest represents the request to create a new board
// @Description Request body for creating a board. slug is optional and derived from name when empty.
type CreateBoardRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=100" example:"Acme Roadmap"`
	Slug        string          `json:"slug" binding:"omitempty,max=100,slug" example:"acme-roadmap"`
	Description string          `json:"description" binding:"max=2000" example:"Tell us what to build next"`
	IsPublic    *bool           `json:"isPublic" example:"true"`
	Settings    json.RawMessage `json:"settings,omitempty" swaggertype:"object"`
}

// UpdateBoardRequest represents the request to update a board. All fields are optional.
type UpdateBoardRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=2,max=100" example:"Acme Roadmap"`
	Slug        *string         `json:"slug" binding:"omitempty,max=100,slug" example:"acme"`
	Description *string         `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool           `json:"isPublic"`
	Settings    json.RawMessage `json:"settings,omitempty" swaggertype:"object"`
}

// BoardResponse represents the board response
type BoardResponse struct {
	ID          uuid.UUID       `json:"boardId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Slug        string          `json:"slug" example:"acme-roadmap"`
	Name        string          `json:"name" example:"Acme Roadmap"`
	Description string          `json:"description"`
	CreatorID   string          `json:"creatorId"`
	IsPublic    bool            `json:"isPublic"`
	LogoURL     string          `json:"logoUrl,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty" swaggertype:"object"`
	IsOwner     bool            `json:"isOwner"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewBoardResponse converts a board. isOwner is computed by the caller.
func NewBoardResponse(b *domain.Board, isOwner bool) BoardResponse {
	resp := BoardResponse{
		ID:          b.ID,
		Slug:        b.Slug,
		Name:        b.Name,
		Description: b.Description,
		CreatorID:   b.CreatorID,
		IsPublic:    b.IsPublic,
		LogoURL:     b.LogoURL,
		IsOwner:     isOwner,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if len(b.Settings) > 0 {
		resp.Settings = json.RawMessage(b.Settings)
	}
	return resp
}

// LogoUploadRequest asks for a presigned logo upload URL
type LogoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required" example:"image/png"`
}

// LogoUploadResponse carries the presigned URL and the key to confirm later
type LogoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey" example:"boards/539167fb-b599-41ba-9ead-344a6d0b3a2f/logo/2024/01/a.png"`
	ExpiresIn int    `json:"expiresIn" example:"300"`
}

// ConfirmLogoRequest points the board logo at an uploaded object
type ConfirmLogoRequest struct {
	FileKey string `json:"fileKey" binding:"required"`
}
