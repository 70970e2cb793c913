package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentState string

const (
	PaymentStateUnpaid   PaymentState = "unpaid"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateRefunded PaymentState = "refunded"
)

// Booking reserves a destination for a visit date and headcount.
// PricePerPerson snapshots the destination price at creation time so that
// later headcount changes never reprice against the live catalog.
type Booking struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	BookingCode    string        `json:"booking_code" gorm:"size:40;uniqueIndex;not null"`
	UserID         uint          `json:"user_id" gorm:"not null;index"`
	DestinationID  uint          `json:"destination_id" gorm:"not null;index"`
	VisitDate      time.Time     `json:"visit_date" gorm:"not null"`
	NumberOfPeople int           `json:"number_of_people" gorm:"not null;check:number_of_people > 0"`
	PricePerPerson float64       `json:"price_per_person" gorm:"type:decimal(12,2);not null"`
	TotalPrice     float64       `json:"total_price" gorm:"type:decimal(14,2);not null"`
	Status         BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','confirmed','cancelled','completed')"`
	PaymentStatus  PaymentState  `json:"payment_status" gorm:"type:varchar(20);default:'unpaid';check:payment_status IN ('unpaid','paid','refunded')"`
	Notes          *string       `json:"notes" gorm:"size:1000"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Destination Destination `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
	Payment     *Payment    `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
