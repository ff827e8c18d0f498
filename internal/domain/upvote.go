package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upvote records that a user supports a feature request; at most one per pair
type Upvote struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FeatureRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_request_user" json:"feature_request_id"`
	UserID           string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_upvotes_request_user;index:idx_upvotes_user_id" json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name for Upvote
func (Upvote) TableName() string {
	return "upvotes"
}

func (u *Upvote) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Board{},
		&FeatureRequest{},
		&Comment{},
		&Upvote{},
	}
}
