package models

import (
	"time"
)

// Wishlist is a (user, destination) join row. The composite unique index is
// what turns a duplicate add into a conflict instead of a second row.
type Wishlist struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_destination"`
	DestinationID uint      `json:"destination_id" gorm:"not null;uniqueIndex:idx_wishlist_user_destination"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Destination Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
}

// TableName specifies the table name for the Wishlist model
func (Wishlist) TableName() string {
	return "wishlists"
}
