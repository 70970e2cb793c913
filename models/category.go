package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a display taxonomy for destinations. Destinations reference it
// loosely through their category string, not a foreign key.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Slug        string         `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Icon        string         `json:"icon" gorm:"size:255"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	SortOrder   int            `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
