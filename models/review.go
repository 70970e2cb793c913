package models

import (
	"time"
)

// Review is a 1-5 star rating with a comment. Destination.Rating is the
// unweighted mean over all reviews and is recomputed on create and delete.
type Review struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	DestinationID uint      `json:"destination_id" gorm:"not null;index"`
	Rating        int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment       string    `json:"comment" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Destination Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
