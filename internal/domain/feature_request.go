package domain

import (
	"github.com/google/uuid"
)

// FeatureRequestStatus is the lifecycle state a board owner assigns
type FeatureRequestStatus string

const (
	StatusNew        FeatureRequestStatus = "NEW"
	StatusInProgress FeatureRequestStatus = "IN_PROGRESS"
	StatusShipped    FeatureRequestStatus = "SHIPPED"
	StatusCancelled  FeatureRequestStatus = "CANCELLED"
)

// AllStatuses lists statuses in lifecycle order
var AllStatuses = []FeatureRequestStatus{StatusNew, StatusInProgress, StatusShipped, StatusCancelled}

// IsValid reports whether s is a known status
func (s FeatureRequestStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FeatureRequest is a suggestion submitted to a board.
// SubmitterName and SubmitterEmail are display-only snapshots; SubmitterID decides ownership.
type FeatureRequest struct {
	BaseModel
	BoardID        uuid.UUID            `gorm:"type:uuid;not null;index:idx_feature_requests_board_id" json:"board_id"`
	SubmitterID    *string              `gorm:"type:varchar(255);index:idx_feature_requests_submitter_id" json:"submitter_id"`
	SubmitterName  string               `gorm:"type:varchar(255)" json:"submitter_name"`
	SubmitterEmail string               `gorm:"type:varchar(255)" json:"submitter_email"`
	Title          string               `gorm:"type:varchar(255);not null" json:"title"`
	Description    string               `gorm:"type:text" json:"description"`
	Status         FeatureRequestStatus `gorm:"type:varchar(20);not null;index:idx_feature_requests_status" json:"status"`
	UpvoteCount    int64                `gorm:"not null;default:0" json:"upvote_count"`
	CommentCount   int64                `gorm:"not null;default:0" json:"comment_count"`
	Board          Board                `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for FeatureRequest
func (FeatureRequest) TableName() string {
	return "feature_requests"
}
