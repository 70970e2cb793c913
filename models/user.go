package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RolePartner UserRole = "partner"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'user';check:role IN ('user','partner','admin')"`
	Avatar       *string        `json:"avatar" gorm:"size:255"`
	Phone        *string        `json:"phone" gorm:"size:20"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Destinations []Destination `json:"destinations,omitempty" gorm:"foreignKey:UserID"`
	Bookings     []Booking     `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
	Reviews      []Review      `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
	Wishlists    []Wishlist    `json:"wishlists,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsPartner checks if the user is a partner
func (u *User) IsPartner() bool {
	return u.Role == RolePartner
}
