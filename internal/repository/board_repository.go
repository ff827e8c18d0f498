package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-board-api/internal/domain"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindBySlug(ctx context.Context, slug string) (*domain.Board, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*domain.Board, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
}

type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create inserts a board; a taken slug yields ErrDuplicate
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("board slug %q: %w", board.Slug, ErrDuplicate)
		}
		return err
	}
	return nil
}

// FindBySlug finds a board by its external slug
func (r *boardRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByID finds a board by id
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByCreator lists the boards a user owns, newest first
func (r *boardRepositoryImpl) FindByCreator(ctx context.Context, creatorID string) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Board{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update applies column updates; renaming onto a taken slug yields ErrDuplicate
func (r *boardRepositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Board{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return fmt.Errorf("board update: %w", ErrDuplicate)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the board together with its requests, comments and upvotes.
// It returns the distinct submitters of the removed requests.
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var submitters []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.FeatureRequest{}).
			Where("board_id = ? AND submitter_id IS NOT NULL", id).
			Distinct().
			Pluck("submitter_id", &submitters).Error; err != nil {
			return err
		}

		requestIDs := tx.Model(&domain.FeatureRequest{}).Select("id").Where("board_id = ?", id)

		if err := tx.Where("feature_request_id IN (?)", requestIDs).Delete(&domain.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_request_id IN (?)", requestIDs).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&domain.FeatureRequest{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.Board{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitters, nil
}
