package domain

import "github.com/google/uuid"

// Comment is a message on a feature request. ParentCommentID, when set,
// always points at a top-level comment of the same feature request.
type Comment struct {
	BaseModel
	FeatureRequestID uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_feature_request_id" json:"feature_request_id"`
	AuthorID         *string        `gorm:"type:varchar(255);index:idx_comments_author_id" json:"author_id"`
	ParentCommentID  *uuid.UUID     `gorm:"type:uuid;index:idx_comments_parent_comment_id" json:"parent_comment_id"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	IsEdited         bool           `gorm:"not null" json:"is_edited"`
	FeatureRequest   FeatureRequest `gorm:"foreignKey:FeatureRequestID;constraint:OnDelete:CASCADE" json:"feature_request,omitempty"`
	Author           *User          `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether the comment sits under another comment
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
