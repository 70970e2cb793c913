package models

import (
	"time"
)

// Notification types written by the booking/payment flows:
// booking_created, new_booking, booking_status_updated, payment_created,
// payment_status_updated, payment_success, booking_completed.
type Notification struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;index"`
	Type      string     `json:"type" gorm:"size:50;not null"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Link      *string    `json:"link" gorm:"size:255"`
	IsRead    bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
