package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-board-api/internal/domain"
)

// UpvoteRepository defines the interface for upvote data access.
// Every write keeps feature_requests.upvote_count in the same transaction.
type UpvoteRepository interface {
	Toggle(ctx context.Context, featureRequestID uuid.UUID, userID string) (bool, int64, error)
	FindUpvotedOnBoard(ctx context.Context, boardID uuid.UUID, userID string) ([]uuid.UUID, error)
}

type upvoteRepositoryImpl struct {
	db *gorm.DB
}

// NewUpvoteRepository creates a new instance of UpvoteRepository
func NewUpvoteRepository(db *gorm.DB) UpvoteRepository {
	return &upvoteRepositoryImpl{db: db}
}

// Toggle flips the user's upvote in one transaction and returns the resulting
// state and count. An insert that loses a race to a concurrent insert reports
// upvoted without counting twice.
func (r *upvoteRepositoryImpl) Toggle(ctx context.Context, featureRequestID uuid.UUID, userID string) (bool, int64, error) {
	var (
		upvoted bool
		count   int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := removeUpvote(tx, featureRequestID, userID)
		if err != nil {
			return err
		}
		upvoted = !removed
		if upvoted {
			if _, err := addUpvote(tx, featureRequestID, userID); err != nil {
				return err
			}
		}
		return tx.Model(&domain.FeatureRequest{}).
			Select("upvote_count").
			Where("id = ?", featureRequestID).
			Scan(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return upvoted, count, nil
}

// addUpvote runs under a savepoint so a unique violation leaves the outer transaction usable.
// It returns false when the pair already existed, leaving the counter untouched.
func addUpvote(tx *gorm.DB, featureRequestID uuid.UUID, userID string) (bool, error) {
	err := tx.Transaction(func(sp *gorm.DB) error {
		upvote := &domain.Upvote{FeatureRequestID: featureRequestID, UserID: userID}
		if err := sp.Create(upvote).Error; err != nil {
			return err
		}
		return adjustCounter(sp, featureRequestID, "upvote_count", 1)
	})
	if isDuplicateKey(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// removeUpvote decrements the counter only if a row went away
func removeUpvote(tx *gorm.DB, featureRequestID uuid.UUID, userID string) (bool, error) {
	result := tx.Where("feature_request_id = ? AND user_id = ?", featureRequestID, userID).Delete(&domain.Upvote{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	return true, adjustCounter(tx, featureRequestID, "upvote_count", -result.RowsAffected)
}

// FindUpvotedOnBoard returns the ids of the board's requests the user upvoted
func (r *upvoteRepositoryImpl) FindUpvotedOnBoard(ctx context.Context, boardID uuid.UUID, userID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&domain.Upvote{}).
		Joins("JOIN feature_requests ON feature_requests.id = upvotes.feature_request_id").
		Where("feature_requests.board_id = ? AND upvotes.user_id = ?", boardID, userID).
		Pluck("upvotes.feature_request_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
