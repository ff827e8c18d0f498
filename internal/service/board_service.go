package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feedback-board-api/internal/client"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

// maxSlugAttempts bounds the suffixes tried for a generated slug
const maxSlugAttempts = 20

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, actor *domain.User, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoard(ctx context.Context, slug string) (*dto.BoardResponse, error)
	ListBoardsByCreator(ctx context.Context, creatorID string) ([]dto.BoardResponse, error)
	UpdateBoard(ctx context.Context, board *domain.Board, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, board *domain.Board) ([]string, error)
	RequestLogoUpload(ctx context.Context, board *domain.Board, req *dto.LogoUploadRequest) (*dto.LogoUploadResponse, error)
	ConfirmLogo(ctx context.Context, board *domain.Board, req *dto.ConfirmLogoRequest) (*dto.BoardResponse, error)
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	boardRepo repository.BoardRepository
	logos     client.LogoStorage
	sanitizer *Sanitizer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBoardService creates a new instance of BoardService. logos may be nil
// when object storage is not configured.
func NewBoardService(
	boardRepo repository.BoardRepository,
	logos client.LogoStorage,
	sanitizer *Sanitizer,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo: boardRepo,
		logos:     logos,
		sanitizer: sanitizer,
		metrics:   m,
		logger:    logger,
	}
}

// CreateBoard creates a board owned by actor
func (s *boardServiceImpl) CreateBoard(ctx context.Context, actor *domain.User, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	name := s.sanitizer.Plain(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Board name is required", "")
	}

	boardSlug, err := s.resolveSlug(ctx, req.Slug, name)
	if err != nil {
		return nil, err
	}

	settings, err := normalizeSettings(req.Settings)
	if err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	board := &domain.Board{
		Slug:        boardSlug,
		Name:        name,
		Description: s.sanitizer.Rich(req.Description),
		CreatorID:   actor.ID,
		IsPublic:    isPublic,
		Settings:    settings,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, response.NewValidationError("Slug already taken", boardSlug)
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to create board", err)
	}

	s.metrics.IncrementBoardCreated()
	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("slug", board.Slug),
		zap.String("creator_id", board.CreatorID),
	)

	resp := dto.NewBoardResponse(board, true)
	return &resp, nil
}

// resolveSlug validates an explicit slug or derives a free one from name
func (s *boardServiceImpl) resolveSlug(ctx context.Context, requested, name string) (string, error) {
	if requested != "" {
		if !slug.IsSlug(requested) {
			return "", response.NewValidationError("Invalid slug", requested)
		}
		exists, err := s.boardRepo.SlugExists(ctx, requested)
		if err != nil {
			return "", response.WrapAppError(response.ErrCodeInternal, "Failed to check slug", err)
		}
		if exists {
			return "", response.NewValidationError("Slug already taken", requested)
		}
		return requested, nil
	}

	base := slug.Make(name)
	if base == "" {
		return "", response.NewValidationError("Cannot derive a slug from the board name", name)
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		exists, err := s.boardRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", response.WrapAppError(response.ErrCodeInternal, "Failed to check slug", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", response.NewValidationError("Slug already taken", base)
}

// GetBoard renders a board by slug
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardSlug string) (*dto.BoardResponse, error) {
	board, err := s.boardRepo.FindBySlug(ctx, boardSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Board not found", boardSlug)
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch board", err)
	}
	resp := dto.NewBoardResponse(board, false)
	return &resp, nil
}

// ListBoardsByCreator renders every board one user created, newest first
func (s *boardServiceImpl) ListBoardsByCreator(ctx context.Context, creatorID string) ([]dto.BoardResponse, error) {
	boards, err := s.boardRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to fetch boards", err)
	}

	responses := make([]dto.BoardResponse, 0, len(boards))
	for _, b := range boards {
		responses = append(responses, dto.NewBoardResponse(b, true))
	}
	return responses, nil
}

// UpdateBoard applies a partial update. A slug change must stay unique.
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, board *domain.Board, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		name := s.sanitizer.Plain(*req.Name)
		if name == "" {
			return nil, response.NewValidationError("Board name is required", "")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = s.sanitizer.Rich(*req.Description)
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.Slug != nil && *req.Slug != board.Slug {
		if !slug.IsSlug(*req.Slug) {
			return nil, response.NewValidationError("Invalid slug", *req.Slug)
		}
		updates["slug"] = *req.Slug
	}
	if req.Settings != nil {
		settings, err := normalizeSettings(req.Settings)
		if err != nil {
			return nil, err
		}
		updates["settings"] = settings
	}

	if len(updates) > 0 {
		if err := s.boardRepo.Update(ctx, board.ID, updates); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				return nil, response.NewValidationError("Slug already taken", fmt.Sprint(updates["slug"]))
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, response.NewNotFoundError("Board not found", board.Slug)
			default:
				return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to update board", err)
			}
		}
	}

	updated, err := s.boardRepo.FindByID(ctx, board.ID)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to reload board", err)
	}

	resp := dto.NewBoardResponse(updated, true)
	return &resp, nil
}

// DeleteBoard removes a board with its requests, comments and upvotes and
// returns who had submitted the removed requests
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, board *domain.Board) ([]string, error) {
	submitters, err := s.boardRepo.Delete(ctx, board.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Board not found", board.Slug)
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to delete board", err)
	}

	s.logger.Info("Board deleted",
		zap.String("board_id", board.ID.String()),
		zap.String("slug", board.Slug),
		zap.Int("submitters", len(submitters)),
	)
	return submitters, nil
}

// RequestLogoUpload issues a presigned upload URL for the board logo
func (s *boardServiceImpl) RequestLogoUpload(ctx context.Context, board *domain.Board, req *dto.LogoUploadRequest) (*dto.LogoUploadResponse, error) {
	if s.logos == nil {
		return nil, response.NewUnavailableError("Logo uploads are not configured")
	}

	url, key, err := s.logos.PresignLogoUpload(ctx, board.ID, req.ContentType)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported logo content type") {
			return nil, response.NewValidationError("Unsupported logo content type", req.ContentType)
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to generate upload URL", err)
	}

	return &dto.LogoUploadResponse{
		UploadURL: url,
		FileKey:   key,
		ExpiresIn: 300,
	}, nil
}

// ConfirmLogo points the board at an uploaded logo
func (s *boardServiceImpl) ConfirmLogo(ctx context.Context, board *domain.Board, req *dto.ConfirmLogoRequest) (*dto.BoardResponse, error) {
	if s.logos == nil {
		return nil, response.NewUnavailableError("Logo uploads are not configured")
	}
	if !strings.HasPrefix(req.FileKey, client.LogoKeyPrefix(board.ID)) {
		return nil, response.NewValidationError("File key does not belong to this board", req.FileKey)
	}

	if err := s.logos.ObjectExists(ctx, req.FileKey); err != nil {
		if errors.Is(err, client.ErrObjectNotFound) {
			return nil, response.NewValidationError("Uploaded file not found", req.FileKey)
		}
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to verify upload", err)
	}

	logoURL := s.logos.GetFileURL(req.FileKey)
	if err := s.boardRepo.Update(ctx, board.ID, map[string]interface{}{"logo_url": logoURL}); err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Failed to update board logo", err)
	}

	updated := *board
	updated.LogoURL = logoURL
	resp := dto.NewBoardResponse(&updated, true)
	return &resp, nil
}

// normalizeSettings checks that settings is a JSON object
func normalizeSettings(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, response.NewValidationError("Settings must be a JSON object", err.Error())
	}
	return datatypes.JSON(raw), nil
}
