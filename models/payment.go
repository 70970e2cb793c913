package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment tracks the gateway side of a booking. One payment per booking,
// enforced by the unique index on BookingID.
type Payment struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	BookingID     uint           `json:"booking_id" gorm:"uniqueIndex;not null"`
	Amount        float64        `json:"amount" gorm:"type:decimal(14,2);not null"`
	Method        string         `json:"method" gorm:"size:50;not null"` // bank_transfer, e_wallet, credit_card
	Gateway       *string        `json:"gateway" gorm:"size:50"`
	TransactionID *string        `json:"transaction_id" gorm:"size:100"`
	Status        PaymentStatus  `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','success','failed','refunded')"`
	Metadata      datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	PaidAt        *time.Time     `json:"paid_at"`
	RefundedAt    *time.Time     `json:"refunded_at"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
