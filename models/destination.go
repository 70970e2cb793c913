package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DestinationStatus string

const (
	DestinationStatusActive   DestinationStatus = "active"
	DestinationStatusInactive DestinationStatus = "inactive"
	DestinationStatusPending  DestinationStatus = "pending"
)

// Destination is a bookable tourism location owned by a partner (or admin).
type Destination struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      uint              `json:"user_id" gorm:"not null;index"`
	Name        string            `json:"name" gorm:"size:255;not null"`
	Slug        string            `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Location    string            `json:"location" gorm:"size:500;not null"`
	Province    string            `json:"province" gorm:"size:100;not null"`
	City        string            `json:"city" gorm:"size:100;not null"`
	Category    string            `json:"category" gorm:"size:100;not null"` // loose string, matched against Category.Slug
	Price       float64           `json:"price" gorm:"type:decimal(12,2);default:0"`
	Rating      float64           `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Status      DestinationStatus `json:"status" gorm:"type:varchar(20);default:'active';check:status IN ('active','inactive','pending')"`
	Images      datatypes.JSON    `json:"images" gorm:"type:jsonb;default:'[]'"`
	Facilities  datatypes.JSON    `json:"facilities" gorm:"type:jsonb;default:'[]'"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt    `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User      User                 `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Reviews   []Review             `json:"reviews,omitempty" gorm:"foreignKey:DestinationID"`
	Bookings  []Booking            `json:"bookings,omitempty" gorm:"foreignKey:DestinationID"`
	Galleries []DestinationGallery `json:"galleries,omitempty" gorm:"foreignKey:DestinationID"`
}

// TableName specifies the table name for the Destination model
func (Destination) TableName() string {
	return "destinations"
}

// DestinationGallery is a single gallery image for a destination.
// At most one image per destination carries IsPrimary.
type DestinationGallery struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	DestinationID uint      `json:"destination_id" gorm:"not null;index"`
	ImageURL      string    `json:"image_url" gorm:"size:500;not null"`
	Caption       *string   `json:"caption" gorm:"size:255"`
	IsPrimary     bool      `json:"is_primary" gorm:"default:false"`
	SortOrder     int       `json:"sort_order" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Destination Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
}

// TableName specifies the table name for the DestinationGallery model
func (DestinationGallery) TableName() string {
	return "destination_galleries"
}
