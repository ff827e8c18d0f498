package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedback-board-api/internal/domain"
)

// CommentRepository defines the interface for comment data access.
// Create and Delete keep feature_requests.comment_count in the same transaction.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByFeatureRequest(ctx context.Context, featureRequestID uuid.UUID) ([]*domain.Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, comment *domain.Comment) (int64, error)
}

type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create inserts the comment and bumps the request's comment_count
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		return adjustCounter(tx, comment.FeatureRequestID, "comment_count", 1)
	})
}

// FindByID finds a comment with FeatureRequest.Board populated
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("FeatureRequest.Board").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByFeatureRequest lists every comment on a request, oldest first, with authors
func (r *commentRepositoryImpl) FindByFeatureRequest(ctx context.Context, featureRequestID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("feature_request_id = ?", featureRequestID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent replaces the content and marks the comment edited
func (r *commentRepositoryImpl) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the comment and its replies and returns how many rows went.
// comment_count drops by the same amount.
func (r *commentRepositoryImpl) Delete(ctx context.Context, comment *domain.Comment) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replies := tx.Where("parent_comment_id = ?", comment.ID).Delete(&domain.Comment{})
		if replies.Error != nil {
			return replies.Error
		}

		result := tx.Where("id = ?", comment.ID).Delete(&domain.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		removed = replies.RowsAffected + result.RowsAffected
		return adjustCounter(tx, comment.FeatureRequestID, "comment_count", -removed)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// adjustCounter applies column = column + delta atomically
func adjustCounter(tx *gorm.DB, featureRequestID uuid.UUID, column string, delta int64) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&domain.FeatureRequest{}).
		Where("id = ?", featureRequestID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
