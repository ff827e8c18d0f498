package domain

import (
	"gorm.io/datatypes"
)

// Board is a feedback board addressed externally by its slug
type Board struct {
	BaseModel
	Slug        string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_boards_slug" json:"slug"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   string         `gorm:"type:varchar(255);not null;index:idx_boards_creator_id" json:"creator_id"`
	IsPublic    bool           `gorm:"not null" json:"is_public"`
	LogoURL     string         `gorm:"type:text" json:"logo_url"`
	Settings    datatypes.JSON `json:"settings"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}
