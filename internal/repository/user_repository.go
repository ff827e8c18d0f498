package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedback-board-api/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

// Upsert creates the user row keyed by id. On conflict only the non-empty
// profile fields are overwritten, so a sparse session never erases data.
func (r *userRepositoryImpl) Upsert(ctx context.Context, user *domain.User) error {
	updates := map[string]interface{}{}
	if user.Email != "" {
		updates["email"] = user.Email
	}
	if user.Name != "" {
		updates["name"] = user.Name
	}
	if user.Image != "" {
		updates["image"] = user.Image
	}

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
	}
	if len(updates) == 0 {
		onConflict.DoNothing = true
	} else {
		updates["updated_at"] = time.Now().UTC()
		onConflict.DoUpdates = clause.Assignments(updates)
	}

	return r.db.WithContext(ctx).Clauses(onConflict).Create(user).Error
}

// FindByID finds a user by identity provider id
func (r *userRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
