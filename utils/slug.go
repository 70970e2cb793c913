package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	return slug.Make(name)
}

// GenerateBookingCode builds a booking code like BK1735689600123A1B2C3.
// The UUID fragment makes collisions practically impossible; the unique
// index on bookings.booking_code catches the rest, and callers retry
// on a duplicate-key error.
func GenerateBookingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK%d%s", time.Now().UnixMilli(), suffix)
}

// GenerateTransactionRef builds a gateway transaction reference.
func GenerateTransactionRef() string {
	return "TRX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
