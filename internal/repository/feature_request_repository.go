package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedback-board-api/internal/domain"
)

// Sort orders for listing feature requests
const (
	SortTop      = "top"
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortComments = "comments"
)

// FeatureRequestFilter narrows a board listing
type FeatureRequestFilter struct {
	Status *domain.FeatureRequestStatus
	Sort   string
	Limit  int
	Offset int
}

// OwnerStats aggregates the requests on every board one user owns
type OwnerStats struct {
	Boards          int64
	FeatureRequests int64
	ByStatus        map[domain.FeatureRequestStatus]int64
	Upvotes         int64
	Comments        int64
}

// CounterDrift is a feature request whose denormalized counters disagree with its rows
type CounterDrift struct {
	ID             uuid.UUID
	UpvoteCount    int64
	ActualUpvotes  int64
	CommentCount   int64
	ActualComments int64
}

// FeatureRequestRepository defines the interface for feature request data access
type FeatureRequestRepository interface {
	Create(ctx context.Context, fr *domain.FeatureRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error)
	FindByBoard(ctx context.Context, boardID uuid.UUID, filter FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	StatsForOwner(ctx context.Context, ownerID string) (*OwnerStats, error)
	CountSubmittedBy(ctx context.Context, userID string) (int64, error)
	FindCounterDrift(ctx context.Context) ([]CounterDrift, error)
}

type featureRequestRepositoryImpl struct {
	db *gorm.DB
}

// NewFeatureRequestRepository creates a new instance of FeatureRequestRepository
func NewFeatureRequestRepository(db *gorm.DB) FeatureRequestRepository {
	return &featureRequestRepositoryImpl{db: db}
}

// Create inserts a feature request with zeroed counters
func (r *featureRequestRepositoryImpl) Create(ctx context.Context, fr *domain.FeatureRequest) error {
	fr.UpvoteCount = 0
	fr.CommentCount = 0
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(fr).Error
}

// FindByID finds a feature request with its Board populated
func (r *featureRequestRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error) {
	var fr domain.FeatureRequest
	if err := r.db.WithContext(ctx).
		Preload("Board").
		Where("id = ?", id).
		First(&fr).Error; err != nil {
		return nil, err
	}
	return &fr, nil
}

// FindByBoard lists a board's requests and the total matching the filter
func (r *featureRequestRepositoryImpl) FindByBoard(ctx context.Context, boardID uuid.UUID, filter FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.FeatureRequest{}).Where("board_id = ?", boardID)
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scoped()

	switch filter.Sort {
	case SortNewest:
		query = query.Order("created_at DESC")
	case SortOldest:
		query = query.Order("created_at ASC")
	case SortComments:
		query = query.Order("comment_count DESC").Order("created_at DESC")
	default:
		query = query.Order("upvote_count DESC").Order("created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var requests []*domain.FeatureRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Update applies column updates to one request
func (r *featureRequestRepositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.FeatureRequest{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the request with its comments and upvotes
func (r *featureRequestRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feature_request_id = ?", id).Delete(&domain.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_request_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.FeatureRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// StatsForOwner aggregates counters across every board ownerID created
func (r *featureRequestRepositoryImpl) StatsForOwner(ctx context.Context, ownerID string) (*OwnerStats, error) {
	db := r.db.WithContext(ctx)
	stats := &OwnerStats{ByStatus: make(map[domain.FeatureRequestStatus]int64)}

	if err := db.Model(&domain.Board{}).Where("creator_id = ?", ownerID).Count(&stats.Boards).Error; err != nil {
		return nil, err
	}

	owned := db.Model(&domain.Board{}).Select("id").Where("creator_id = ?", ownerID)

	var rows []struct {
		Status   domain.FeatureRequestStatus
		Total    int64
		Upvotes  int64
		Comments int64
	}
	if err := db.Model(&domain.FeatureRequest{}).
		Select("status, COUNT(*) AS total, COALESCE(SUM(upvote_count), 0) AS upvotes, COALESCE(SUM(comment_count), 0) AS comments").
		Where("board_id IN (?)", owned).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Total
		stats.FeatureRequests += row.Total
		stats.Upvotes += row.Upvotes
		stats.Comments += row.Comments
	}
	return stats, nil
}

// CountSubmittedBy counts requests a user submitted anywhere
func (r *featureRequestRepositoryImpl) CountSubmittedBy(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.FeatureRequest{}).Where("submitter_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindCounterDrift compares each request's counters against its upvote and comment rows
func (r *featureRequestRepositoryImpl) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	const upvotes = "(SELECT COUNT(*) FROM upvotes u WHERE u.feature_request_id = fr.id)"
	const comments = "(SELECT COUNT(*) FROM comments c WHERE c.feature_request_id = fr.id)"

	var drift []CounterDrift
	err := r.db.WithContext(ctx).
		Table("feature_requests AS fr").
		Select("fr.id AS id, fr.upvote_count AS upvote_count, " + upvotes + " AS actual_upvotes, " +
			"fr.comment_count AS comment_count, " + comments + " AS actual_comments").
		Where("fr.upvote_count <> " + upvotes + " OR fr.comment_count <> " + comments).
		Scan(&drift).Error
	if err != nil {
		return nil, err
	}
	return drift, nil
}
